package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lnmedico/lnmedico-backend/api/responses"
	"github.com/lnmedico/lnmedico-backend/api/validators"
	"github.com/lnmedico/lnmedico-backend/internal/inventory"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
)

type medicineResponse struct {
	models.Medicine
	LowStock   bool            `json:"low_stock"`
	StockValue decimal.Decimal `json:"stock_value"`
}

func newMedicineResponse(m models.Medicine) medicineResponse {
	return medicineResponse{Medicine: m, LowStock: m.IsLowStock(), StockValue: m.StockValue()}
}

func newMedicineResponses(meds []models.Medicine) []medicineResponse {
	out := make([]medicineResponse, 0, len(meds))
	for _, m := range meds {
		out = append(out, newMedicineResponse(m))
	}
	return out
}

type createMedicineRequest struct {
	ID       string           `json:"id" validate:"omitempty,max=64"`
	Name     string           `json:"name" validate:"required,notblank,max=200"`
	Quantity *int             `json:"quantity" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
}

func (r createMedicineRequest) toInput() inventory.AddInput {
	return inventory.AddInput{
		ID:       validators.SanitizeString(r.ID, 64),
		Name:     validators.SanitizeString(r.Name, 200),
		Quantity: *r.Quantity,
		Price:    *r.Price,
	}
}

type updateMedicineRequest struct {
	Name     *string          `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Quantity *int             `json:"quantity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

func (r updateMedicineRequest) toInput() inventory.UpdateInput {
	return inventory.UpdateInput{Name: r.Name, Quantity: r.Quantity, Price: r.Price}
}

func ListMedicines(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		meds, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMedicineResponses(meds))
	}
}

func LowStockMedicines(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		meds, err := svc.LowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMedicineResponses(meds))
	}
}

func CreateMedicine(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		var payload createMedicineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		med, err := svc.Add(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newMedicineResponse(*med))
	}
}

func GetMedicine(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		id, err := pathParam(r, "medicineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		med, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMedicineResponse(*med))
	}
}

func UpdateMedicine(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		id, err := pathParam(r, "medicineId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateMedicineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		med, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newMedicineResponse(*med))
	}
}

func DeleteMedicine(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		id, err := pathParam(r, "medicineId")
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

func pathParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	return value, nil
}
