package controllers

import (
	"context"
	"net/http"

	"github.com/lnmedico/lnmedico-backend/api/responses"
	"github.com/lnmedico/lnmedico-backend/pkg/config"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
)

const envHeader = "X-LNMedico-Env"

// Pinger is satisfied by the collections repository.
type Pinger interface {
	Ping(ctx context.Context) error
	Driver() string
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the storage medium answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storage not configured"))
			return
		}
		if err := store.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "storage": store.Driver()})
	}
}
