package controllers

import (
	"net/http"

	"github.com/lnmedico/lnmedico-backend/api/responses"
	"github.com/lnmedico/lnmedico-backend/internal/dashboard"
	pkgerrors "github.com/lnmedico/lnmedico-backend/pkg/errors"
	"github.com/lnmedico/lnmedico-backend/pkg/logger"
)

func Dashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
