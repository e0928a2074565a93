// Package prescriptions implements the dispensing transaction: validate the
// whole request against current stock, then deduct and record it.
package prescriptions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/lnmedico/lnmedico-backend/internal/collections"
	"github.com/lnmedico/lnmedico-backend/internal/patients"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/metrics"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
)

// ServiceParams groups dependencies for the prescription engine.
type ServiceParams struct {
	Repo    *collections.Repository
	Logger  *logger.Logger
	Metrics *metrics.DispenseMetrics
	Now     func() time.Time
	NewID   func() string
}

// Service dispenses prescriptions and looks up past ones.
type Service interface {
	Create(ctx context.Context, patientID string, lines []Line) (*models.Prescription, error)
	Get(ctx context.Context, patientID, prescriptionID string) (*models.Prescription, error)
}

type service struct {
	repo    *collections.Repository
	logg    *logger.Logger
	metrics *metrics.DispenseMetrics
	now     func() time.Time
	newID   func() string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collections repository is required")
	}
	svc := &service{
		repo:    params.Repo,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     params.Now,
		newID:   params.NewID,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc, nil
}

// Create validates every line before touching stock. Either all quantities
// are deducted and the prescription is appended, or nothing changes.
func (s *service) Create(ctx context.Context, patientID string, lines []Line) (*models.Prescription, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(time.Since(started)) }()

	patientID = strings.TrimSpace(patientID)
	if s.logg != nil {
		ctx = s.logg.WithPatientID(ctx, patientID)
	}

	rx, err := s.create(ctx, patientID, lines)
	if err != nil {
		s.metrics.IncRejected(string(pkgerrors.CodeOf(err)))
		if s.logg != nil && pkgerrors.CodeOf(err) == pkgerrors.CodeStorage {
			s.logg.Error(ctx, "prescription persistence failed", err)
		} else if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "prescription rejected")
		}
		return nil, err
	}

	units := make(map[string]int, len(rx.Items))
	for _, item := range rx.Items {
		units[item.MedicineID] += item.Quantity
	}
	s.metrics.ObserveDispensed(units)
	if s.logg != nil {
		s.logg.Info(s.logg.WithPrescriptionID(ctx, rx.ID), "prescription dispensed")
	}
	return rx, nil
}

func (s *service) create(ctx context.Context, patientID string, lines []Line) (*models.Prescription, error) {
	if err := validateRequest(patientID, lines); err != nil {
		return nil, err
	}
	merged, err := mergeLines(normalizeLines(lines))
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"requested_lines": len(lines),
			"merged_lines":    len(merged),
		}), "prescription lines merged")
	}

	var created models.Prescription
	err = s.repo.Exclusive(ctx, func(ctx context.Context) error {
		meds, err := s.repo.LoadMedicines(ctx)
		if err != nil {
			return err
		}
		col, err := s.repo.LoadPatients(ctx)
		if err != nil {
			return err
		}

		if _, ok := col[patientID]; !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "patient "+patientID+" not found").
				WithDetails(map[string]any{"patient_id": patientID})
		}
		for _, line := range merged {
			if _, ok := meds[line.MedicineID]; !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "medicine "+line.MedicineID+" not found").
					WithDetails(map[string]any{"medicine_id": line.MedicineID})
			}
		}
		for _, line := range merged {
			med := meds[line.MedicineID]
			if med.Quantity < line.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s: requested %d, available %d", med.Name, line.Quantity, med.Quantity)).
					WithDetails(map[string]any{
						"medicine_id": med.ID,
						"requested":   line.Quantity,
						"available":   med.Quantity,
					})
			}
		}

		// commit
		now := s.now().UTC()
		items := make([]models.LineItem, 0, len(merged))
		for _, line := range merged {
			med := meds[line.MedicineID]
			med.Quantity -= line.Quantity
			med.UpdatedAt = now
			meds[line.MedicineID] = med
			items = append(items, models.LineItem{
				MedicineID:   med.ID,
				MedicineName: med.Name,
				Quantity:     line.Quantity,
				UnitPrice:    med.Price,
			})
		}
		created = models.Prescription{
			ID:          s.newID(),
			ReceiptNo:   models.ReceiptNumber(now),
			DispensedAt: now,
			Items:       items,
		}
		if err := patients.AppendPrescription(col, patientID, created); err != nil {
			return err
		}
		patient := col[patientID]
		patient.UpdatedAt = now
		col[patientID] = patient

		// Both writes are always attempted; there is no rollback of a
		// half-written pair.
		saveErr := multierr.Combine(
			s.repo.SaveMedicines(ctx, meds),
			s.repo.SavePatients(ctx, col),
		)
		if saveErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, saveErr, "failed to persist prescription")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Get returns a past prescription from the patient's history.
func (s *service) Get(ctx context.Context, patientID, prescriptionID string) (*models.Prescription, error) {
	patientID = strings.TrimSpace(patientID)
	prescriptionID = strings.TrimSpace(prescriptionID)
	col, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return nil, err
	}
	patient, ok := col[patientID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "patient "+patientID+" not found").
			WithDetails(map[string]any{"patient_id": patientID})
	}
	rx, ok := patient.FindPrescription(prescriptionID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "prescription "+prescriptionID+" not found").
			WithDetails(map[string]any{"prescription_id": prescriptionID})
	}
	return &rx, nil
}

func validateRequest(patientID string, lines []Line) error {
	if patientID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "patient id is required")
	}
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one medicine is required")
	}
	for i, line := range lines {
		if strings.TrimSpace(line.MedicineID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "medicine id is required").
				WithDetails(map[string]any{"index": i})
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero").
				WithDetails(map[string]any{"index": i, "medicine_id": line.MedicineID, "quantity": line.Quantity})
		}
	}
	return nil
}

func normalizeLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = Line{MedicineID: strings.TrimSpace(line.MedicineID), Quantity: line.Quantity}
	}
	return out
}
