// Package inventory manages the medicine stock collection.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lnmedico/lnmedico-backend/internal/collections"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
)

// ServiceParams groups dependencies for the inventory service.
type ServiceParams struct {
	Repo   *collections.Repository
	Logger *logger.Logger
	Now    func() time.Time
	NewID  func() string
}

// Service exposes inventory management rules.
type Service interface {
	Add(ctx context.Context, input AddInput) (*models.Medicine, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Medicine, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.Medicine, error)
	List(ctx context.Context) ([]models.Medicine, error)
	IsLowStock(ctx context.Context, id string) (bool, error)
	LowStock(ctx context.Context) ([]models.Medicine, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type service struct {
	repo  *collections.Repository
	logg  *logger.Logger
	now   func() time.Time
	newID func() string
}

// NewService builds the inventory service.
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

// Add inserts a medicine; ids and names must be unique.
func (s *service) Add(ctx context.Context, input AddInput) (*models.Medicine, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	var created models.Medicine
	err := s.repo.Exclusive(ctx, func(ctx context.Context) error {
		meds, err := s.repo.LoadMedicines(ctx)
		if err != nil {
			return err
		}

		id := strings.TrimSpace(input.ID)
		if id == "" {
			id = s.newID()
		}
		if _, exists := meds[id]; exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "medicine "+id+" already exists").
				WithDetails(map[string]any{"id": id})
		}
		if existing, ok := meds.FindByName(name); ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "medicine "+name+" already exists").
				WithDetails(map[string]any{"id": existing.ID, "name": existing.Name})
		}

		now := s.now().UTC()
		created = models.Medicine{
			ID:                id,
			Name:              name,
			Quantity:          input.Quantity,
			Price:             input.Price,
			LowStockThreshold: models.DefaultLowStockThreshold,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		meds[id] = created
		return s.repo.SaveMedicines(ctx, meds)
	})
	if err != nil {
		return nil, err
	}
	s.info(ctx, created.ID, "medicine added")
	return &created, nil
}

// Update applies the provided fields; nothing is persisted when the result
// would violate the stock invariants.
func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Medicine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine id is required")
	}
	if input.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one field must be provided")
	}

	var updated models.Medicine
	err := s.repo.Exclusive(ctx, func(ctx context.Context) error {
		meds, err := s.repo.LoadMedicines(ctx)
		if err != nil {
			return err
		}
		med, ok := meds[id]
		if !ok {
			return notFound(id)
		}

		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "medicine name is required")
			}
			if existing, ok := meds.FindByName(name); ok && existing.ID != id {
				return pkgerrors.New(pkgerrors.CodeConflict, "medicine "+name+" already exists").
					WithDetails(map[string]any{"id": existing.ID, "name": existing.Name})
			}
			med.Name = name
		}
		if input.Quantity != nil {
			if *input.Quantity < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative").
					WithDetails(map[string]any{"quantity": *input.Quantity})
			}
			med.Quantity = *input.Quantity
		}
		if input.Price != nil {
			if input.Price.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
					WithDetails(map[string]any{"price": input.Price.String()})
			}
			med.Price = *input.Price
		}
		med.UpdatedAt = s.now().UTC()
		meds[id] = med
		updated = med
		return s.repo.SaveMedicines(ctx, meds)
	})
	if err != nil {
		return nil, err
	}
	s.info(ctx, id, "medicine updated")
	return &updated, nil
}

// Remove deletes the record. Past prescriptions keep their snapshot.
func (s *service) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	err := s.repo.Exclusive(ctx, func(ctx context.Context) error {
		meds, err := s.repo.LoadMedicines(ctx)
		if err != nil {
			return err
		}
		if _, ok := meds[id]; !ok {
			return notFound(id)
		}
		delete(meds, id)
		return s.repo.SaveMedicines(ctx, meds)
	})
	if err != nil {
		return err
	}
	s.info(ctx, id, "medicine removed")
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Medicine, error) {
	meds, err := s.repo.LoadMedicines(ctx)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	med, ok := meds[id]
	if !ok {
		return nil, notFound(id)
	}
	return &med, nil
}

// List returns every medicine ordered by name, then id.
func (s *service) List(ctx context.Context) ([]models.Medicine, error) {
	meds, err := s.repo.LoadMedicines(ctx)
	if err != nil {
		return nil, err
	}
	return meds.Sorted(), nil
}

func (s *service) IsLowStock(ctx context.Context, id string) (bool, error) {
	med, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return med.IsLowStock(), nil
}

// LowStock lists medicines below their restock threshold.
func (s *service) LowStock(ctx context.Context) ([]models.Medicine, error) {
	meds, err := s.repo.LoadMedicines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Medicine, 0)
	for _, med := range meds.Sorted() {
		if med.IsLowStock() {
			out = append(out, med)
		}
	}
	return out, nil
}

// SeedDefaults fills an empty inventory with the default catalog and returns
// the number of records written. A non-empty inventory is left alone.
func (s *service) SeedDefaults(ctx context.Context) (int, error) {
	seeded := 0
	err := s.repo.Exclusive(ctx, func(ctx context.Context) error {
		meds, err := s.repo.LoadMedicines(ctx)
		if err != nil {
			return err
		}
		if len(meds) > 0 {
			return nil
		}
		now := s.now().UTC()
		for idx, name := range defaultCatalog {
			id := catalogID(idx)
			meds[id] = models.Medicine{
				ID:                id,
				Name:              name,
				Quantity:          defaultCatalogQuantity,
				Price:             defaultCatalogPrice,
				LowStockThreshold: models.DefaultLowStockThreshold,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
		}
		if err := s.repo.SaveMedicines(ctx, meds); err != nil {
			return err
		}
		seeded = len(meds)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if seeded > 0 && s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "count", seeded), "default catalog seeded")
	}
	return seeded, nil
}

func (s *service) info(ctx context.Context, id, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithMedicineID(ctx, id), msg)
}

func notFound(id string) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "medicine "+id+" not found").
		WithDetails(map[string]any{"id": id})
}
