package controllers

import (
	"net/http"

	"github.com/lnmedico/lnmedico-backend/api/responses"
	"github.com/lnmedico/lnmedico-backend/api/validators"
	"github.com/lnmedico/lnmedico-backend/internal/prescriptions"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
)

type prescriptionLineRequest struct {
	MedicineID string `json:"medicine_id" validate:"required,notblank"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
}

type createPrescriptionRequest struct {
	Items []prescriptionLineRequest `json:"items" validate:"required,min=1,dive"`
}

func (r createPrescriptionRequest) toLines() []prescriptions.Line {
	lines := make([]prescriptions.Line, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, prescriptions.Line{MedicineID: item.MedicineID, Quantity: item.Quantity})
	}
	return lines
}

// CreatePrescription runs the dispensing transaction for the patient in the path.
func CreatePrescription(svc prescriptions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prescription service unavailable"))
			return
		}
		patientID, err := pathParam(r, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createPrescriptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rx, err := svc.Create(r.Context(), patientID, payload.toLines())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rx)
	}
}
