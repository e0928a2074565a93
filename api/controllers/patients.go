package controllers

import (
	"net/http"

	"github.com/lnmedico/lnmedico-backend/api/responses"
	"github.com/lnmedico/lnmedico-backend/api/validators"
	"github.com/lnmedico/lnmedico-backend/internal/patients"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
)

type createPatientRequest struct {
	ID     string `json:"id" validate:"omitempty,max=64"`
	Name   string `json:"name" validate:"required,notblank,max=200"`
	Age    *int   `json:"age" validate:"required,gte=0,lte=120"`
	Gender string `json:"gender" validate:"required,notblank"`
}

func (r createPatientRequest) toInput() patients.AddInput {
	return patients.AddInput{
		ID:     validators.SanitizeString(r.ID, 64),
		Name:   validators.SanitizeString(r.Name, 200),
		Age:    *r.Age,
		Gender: r.Gender,
	}
}

type updatePatientRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Age    *int    `json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
	Gender *string `json:"gender,omitempty"`
}

func (r updatePatientRequest) toInput() patients.UpdateInput {
	return patients.UpdateInput{Name: r.Name, Age: r.Age, Gender: r.Gender}
}

func ListPatients(svc patients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func CreatePatient(svc patients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
			return
		}
		var payload createPatientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		patient, err := svc.Add(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, patient)
	}
}

func GetPatient(svc patients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
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
		responses.WriteSuccess(w, patient)
	}
}

func UpdatePatient(svc patients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
			return
		}
		id, err := pathParam(r, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updatePatientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		patient, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, patient)
	}
}

func DeletePatient(svc patients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
			return
		}
		id, err := pathParam(r, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func PatientHistory(svc patients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "patient service unavailable"))
			return
		}
		id, err := pathParam(r, "patientId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		history, err := svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
