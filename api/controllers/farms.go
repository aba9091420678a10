package controllers

import (
	"net/http"
	"time"

	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/api/validators"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/uploads"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

const uploadFormLimit = 16 << 20

// FarmProfileGet returns the caller's farm profile.
func FarmProfileGet(svc *farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		farm, err := svc.GetByOwner(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// FarmProfileUpdate applies profile changes.
func FarmProfileUpdate(svc *farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body farms.UpdateProfileInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.UpdateProfile(r.Context(), user.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// FarmProfilePhotoUpload swaps the farm's profile photo.
func FarmProfilePhotoUpload(svc *farms.Service, uploader *uploads.Service, logg *logger.Logger) http.HandlerFunc {
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
		_, header, err := r.FormFile("foto")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "foto file field is required"))
			return
		}

		stored, err := uploader.Accept(r.Context(), enums.UploadCategoryProfilePhoto, user.ID, header)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farm, err := svc.SetProfilePhoto(r.Context(), user.ID, stored.RelPath)
		if err != nil {
			_ = uploader.Discard(stored.RelPath)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farm)
	}
}

// FarmCertificatesList returns the farm's certificates.
func FarmCertificatesList(svc *farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		certs, err := svc.ListCertificates(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, certs)
	}
}

// FarmCertificateAdd uploads and registers a new certificate. A duplicate
// (kind, issuer) pair is a conflict.
func FarmCertificateAdd(svc *farms.Service, uploader *uploads.Service, logg *logger.Logger) http.HandlerFunc {
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

		kind := r.FormValue("kind")
		issuer := r.FormValue("issuer")
		if kind == "" || issuer == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "kind and issuer are required"))
			return
		}

		var validUntil *time.Time
		if raw := r.FormValue("validUntil"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "validUntil must be YYYY-MM-DD"))
				return
			}
			validUntil = &parsed
		}

		_, header, err := r.FormFile("belge")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "belge file field is required"))
			return
		}

		stored, err := uploader.Accept(r.Context(), enums.UploadCategoryCertificate, user.ID, header)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cert := models.Certificate{
			Kind:       kind,
			Issuer:     issuer,
			FilePath:   stored.RelPath,
			ValidUntil: validUntil,
		}
		created, err := svc.AddCertificate(r.Context(), user.ID, &cert)
		if err != nil {
			_ = uploader.Discard(stored.RelPath)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// FarmCertificateDelete removes a certificate and its file.
func FarmCertificateDelete(svc *farms.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		certID, err := pathUUID(r, "certificateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveCertificate(r.Context(), user.ID, certID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
