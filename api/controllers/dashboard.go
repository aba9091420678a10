package controllers

import (
	"net/http"

	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/internal/dashboard"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

// DashboardFarmStats returns the farmer panel summary for ?timeRange=.
func DashboardFarmStats(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		timeRange, err := dashboard.ParseTimeRange(r.URL.Query().Get("timeRange"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.FarmStats(r.Context(), user.ID, timeRange)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

// DashboardAuthorityStats returns platform-wide counters for the admin panel.
func DashboardAuthorityStats(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.AuthorityStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
