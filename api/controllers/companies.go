package controllers

import (
	"net/http"

	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/api/validators"
	"github.com/agropazar/agropazar-backend/internal/companies"
	"github.com/agropazar/agropazar-backend/internal/uploads"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

// CompanyProfileGet returns the caller's company profile.
func CompanyProfileGet(svc *companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		company, err := svc.GetByOwner(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// CompanyProfileUpdate applies profile changes.
func CompanyProfileUpdate(svc *companies.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body companies.UpdateProfileInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.UpdateProfile(r.Context(), user.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}

// CompanyLogoUpload swaps the company logo.
func CompanyLogoUpload(svc *companies.Service, uploader *uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		if err := r.ParseMultipartForm(uploadFormLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		_, header, err := r.FormFile("logo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "logo file field is required"))
			return
		}

		stored, err := uploader.Accept(r.Context(), enums.UploadCategoryLogo, user.ID, header)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		company, err := svc.SetLogo(r.Context(), user.ID, stored.RelPath)
		if err != nil {
			_ = uploader.Discard(stored.RelPath)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, company)
	}
}
