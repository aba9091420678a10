package controllers

import (
	"net/http"
	"strings"

	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/api/validators"
	"github.com/agropazar/agropazar-backend/internal/users"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

// AdminUsersList returns accounts for the authority panel, filterable by
// ?role= and ?status=.
func AdminUsersList(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params users.ListParams

		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			params.Role = &role
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseUserStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			params.Status = &status
		}

		rows, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AdminUserGet returns one account.
func AdminUserGet(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

type updateUserStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminUserUpdateStatus flips an account's status. This is also how pending
// company accounts get activated.
func AdminUserUpdateStatus(svc *users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateUserStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseUserStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		user, err := svc.SetStatus(r.Context(), userID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
