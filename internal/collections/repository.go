// Package collections loads and saves the medicines and patients collections
// as whole JSON documents on top of a storage backend.
package collections

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/models"
	"github.com/lnmedico/lnmedico-backend/pkg/storage"
)

const (
	MedicinesCollection = "medicines"
	PatientsCollection  = "patients"
)

// Repository is shared by every service; it owns no cached state, each load
// returns a freshly decoded collection owned by the caller.
type Repository struct {
	store storage.Backend
	mu    sync.Mutex
}

// NewRepository wraps the provided backend.
func NewRepository(store storage.Backend) (*Repository, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage backend is required")
	}
	return &Repository{store: store}, nil
}

// Exclusive runs fn while holding the process-wide write lock. Every
// read-modify-write sequence goes through here.
func (r *Repository) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (r *Repository) LoadMedicines(ctx context.Context) (models.Medicines, error) {
	var col models.Medicines
	if err := r.load(ctx, MedicinesCollection, &col); err != nil {
		return nil, err
	}
	if col == nil {
		col = models.Medicines{}
	}
	return col, nil
}

func (r *Repository) SaveMedicines(ctx context.Context, col models.Medicines) error {
	if col == nil {
		col = models.Medicines{}
	}
	return r.save(ctx, MedicinesCollection, col)
}

func (r *Repository) LoadPatients(ctx context.Context) (models.Patients, error) {
	var col models.Patients
	if err := r.load(ctx, PatientsCollection, &col); err != nil {
		return nil, err
	}
	if col == nil {
		col = models.Patients{}
	}
	return col, nil
}

func (r *Repository) SavePatients(ctx context.Context, col models.Patients) error {
	if col == nil {
		col = models.Patients{}
	}
	return r.save(ctx, PatientsCollection, col)
}

// Ping reports whether the backing medium is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "storage unreachable")
	}
	return nil
}

func (r *Repository) Driver() string {
	return r.store.Driver()
}

// load leaves out untouched when the collection was never written.
func (r *Repository) load(ctx context.Context, name string, out any) error {
	data, err := r.store.Read(ctx, name)
	if errors.Is(err, storage.ErrNotExist) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "failed to read "+name)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "malformed "+name+" collection")
	}
	return nil
}

func (r *Repository) save(ctx context.Context, name string, col any) error {
	data, err := json.MarshalIndent(col, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "failed to encode "+name)
	}
	data = append(data, '\n')
	if err := r.store.Write(ctx, name, data); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "failed to write "+name)
	}
	return nil
}
