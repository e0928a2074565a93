// Package dashboard computes the quick statistics shown on the landing view.
package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lnmedico/lnmedico-backend/internal/collections"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
)

// Summary aggregates both collections at a single point in time.
type Summary struct {
	TotalMedicines     int               `json:"total_medicines"`
	TotalPatients      int               `json:"total_patients"`
	TotalPrescriptions int               `json:"total_prescriptions"`
	InventoryValue     decimal.Decimal   `json:"inventory_value"`
	LowStockThreshold  int               `json:"low_stock_threshold"`
	LowStock           []models.Medicine `json:"low_stock"`
}

type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo *collections.Repository
}

func NewService(repo *collections.Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collections repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	meds, err := s.repo.LoadMedicines(ctx)
	if err != nil {
		return nil, err
	}
	patients, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]models.Medicine, 0)
	for _, med := range meds.Sorted() {
		if med.IsLowStock() {
			low = append(low, med)
		}
	}
	return &Summary{
		TotalMedicines:     len(meds),
		TotalPatients:      len(patients),
		TotalPrescriptions: patients.PrescriptionCount(),
		InventoryValue:     meds.TotalValue(),
		LowStockThreshold:  models.DefaultLowStockThreshold,
		LowStock:           low,
	}, nil
}
