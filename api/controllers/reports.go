package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/lnmedico/lnmedico-backend/api/responses"
	"github.com/lnmedico/lnmedico-backend/internal/inventory"
	"github.com/lnmedico/lnmedico-backend/internal/patients"
	"github.com/lnmedico/lnmedico-backend/internal/prescriptions"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
)

// DocumentRenderer is implemented by reports.Generator.
type DocumentRenderer interface {
	Prescription(patient models.Patient, rx models.Prescription) ([]byte, error)
	PatientHistory(patient models.Patient) ([]byte, error)
	Inventory(medicines []models.Medicine) ([]byte, error)
	AllPatients(patients []models.Patient) ([]byte, error)
}

func PrescriptionPDF(rxSvc prescriptions.Service, patientSvc patients.Service, renderer DocumentRenderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rxSvc == nil || patientSvc == nil || renderer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}
		patientID, err := pathParam(r, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rxID, err := pathParam(r, "prescriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		patient, err := patientSvc.Get(r.Context(), patientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rx, err := rxSvc.Get(r.Context(), patientID, rxID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := renderer.Prescription(*patient, *rx)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, "prescription_"+safeFilename(rx.ReceiptNo)+".pdf", data)
	}
}

func PatientHistoryPDF(svc patients.Service, renderer DocumentRenderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || renderer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}
		id, err := pathParam(r, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		patient, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := renderer.PatientHistory(*patient)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, safeFilename(patient.Name)+"_history.pdf", data)
	}
}

func InventoryPDF(svc inventory.Service, renderer DocumentRenderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || renderer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}
		meds, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := renderer.Inventory(meds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, "inventory_report_"+time.Now().Format("20060102")+".pdf", data)
	}
}

func PatientsPDF(svc patients.Service, renderer DocumentRenderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || renderer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		data, err := renderer.AllPatients(list)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePDF(w, "all_patients_report_"+time.Now().Format("20060102")+".pdf", data)
	}
}

// safeFilename keeps letters, digits, dash and underscore.
func safeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}
