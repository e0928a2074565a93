// Package patients manages patient records and their prescription history.
package patients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lnmedico/lnmedico-backend/internal/collections"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
)

// ServiceParams groups dependencies for the patient service.
type ServiceParams struct {
	Repo   *collections.Repository
	Logger *logger.Logger
	Now    func() time.Time
	NewID  func() string
}

// Service exposes patient management rules. Prescriptions are only ever
// appended by the prescription engine through AppendPrescription.
type Service interface {
	Add(ctx context.Context, input AddInput) (*models.Patient, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Patient, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	History(ctx context.Context, id string) ([]models.Prescription, error)
}

type service struct {
	repo  *collections.Repository
	logg  *logger.Logger
	now   func() time.Time
	newID func() string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collections repository is required")
	}
	svc := &service{
		repo:  params.Repo,
		logg:  params.Logger,
		now:   params.Now,
		newID: params.NewID,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	return svc, nil
}

func (s *service) Add(ctx context.Context, input AddInput) (*models.Patient, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient name is required")
	}
	if err := validateAge(input.Age); err != nil {
		return nil, err
	}
	gender, err := NormalizeGender(input.Gender)
	if err != nil {
		return nil, err
	}

	var created models.Patient
	err = s.repo.Exclusive(ctx, func(ctx context.Context) error {
		col, err := s.repo.LoadPatients(ctx)
		if err != nil {
			return err
		}
		id := strings.TrimSpace(input.ID)
		if id == "" {
			id = s.newID()
		}
		if _, exists := col[id]; exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "patient "+id+" already exists").
				WithDetails(map[string]any{"id": id})
		}
		now := s.now().UTC()
		created = models.Patient{
			ID:            id,
			Name:          name,
			Age:           input.Age,
			Gender:        gender,
			Prescriptions: []models.Prescription{},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		col[id] = created
		return s.repo.SavePatients(ctx, col)
	})
	if err != nil {
		return nil, err
	}
	s.info(ctx, created.ID, "patient added")
	return &created, nil
}

// Update changes demographics only; the prescription history is untouched.
func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Patient, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient id is required")
	}
	if input.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided")
	}

	var updated models.Patient
	err := s.repo.Exclusive(ctx, func(ctx context.Context) error {
		col, err := s.repo.LoadPatients(ctx)
		if err != nil {
			return err
		}
		patient, ok := col[id]
		if !ok {
			return notFound(id)
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "patient name is required")
			}
			patient.Name = name
		}
		if input.Age != nil {
			if err := validateAge(*input.Age); err != nil {
				return err
			}
			patient.Age = *input.Age
		}
		if input.Gender != nil {
			gender, err := NormalizeGender(*input.Gender)
			if err != nil {
				return err
			}
			patient.Gender = gender
		}
		patient.UpdatedAt = s.now().UTC()
		col[id] = patient
		updated = patient
		return s.repo.SavePatients(ctx, col)
	})
	if err != nil {
		return nil, err
	}
	s.info(ctx, id, "patient updated")
	return &updated, nil
}

func (s *service) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	err := s.repo.Exclusive(ctx, func(ctx context.Context) error {
		col, err := s.repo.LoadPatients(ctx)
		if err != nil {
			return err
		}
		if _, ok := col[id]; !ok {
			return notFound(id)
		}
		delete(col, id)
		return s.repo.SavePatients(ctx, col)
	})
	if err != nil {
		return err
	}
	s.info(ctx, id, "patient removed")
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Patient, error) {
	col, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	patient, ok := col[id]
	if !ok {
		return nil, notFound(id)
	}
	return &patient, nil
}

// List returns every patient ordered by name, then id.
func (s *service) List(ctx context.Context) ([]models.Patient, error) {
	col, err := s.repo.LoadPatients(ctx)
	if err != nil {
		return nil, err
	}
	return col.Sorted(), nil
}

// History returns the prescriptions in dispensing order.
func (s *service) History(ctx context.Context, id string) ([]models.Prescription, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient.Prescriptions == nil {
		return []models.Prescription{}, nil
	}
	return patient.Prescriptions, nil
}

// AppendPrescription adds rx to the end of the patient's history inside col.
// It does not persist; the caller saves the collection.
func AppendPrescription(col models.Patients, patientID string, rx models.Prescription) error {
	patient, ok := col[patientID]
	if !ok {
		return notFound(patientID)
	}
	history := make([]models.Prescription, 0, len(patient.Prescriptions)+1)
	history = append(history, patient.Prescriptions...)
	patient.Prescriptions = append(history, rx.Clone())
	col[patientID] = patient
	return nil
}

// NormalizeGender maps case-insensitive input onto the accepted values.
func NormalizeGender(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	for _, g := range Genders {
		if strings.EqualFold(g, trimmed) {
			return g, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "gender must be one of Male, Female, Other").
		WithDetails(map[string]any{"gender": value})
}

func validateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge)).
			WithDetails(map[string]any{"age": age})
	}
	return nil
}

func (s *service) info(ctx context.Context, id, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithPatientID(ctx, id), msg)
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "patient "+id+" not found").
		WithDetails(map[string]any{"id": id})
}
