package controllers

import (
	"net/http"
	"strings"

	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/api/validators"
	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/auth"
	"github.com/agropazar/agropazar-backend/internal/uploads"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/google/uuid"
)

const registerFormLimit = 64 << 20

// AuthRegisterFarmer handles farmer sign-up: multipart form fields plus one
// file per document-type code.
func AuthRegisterFarmer(svc *auth.Service, uploader *uploads.Service, apps *applications.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(registerFormLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		input := auth.RegisterFarmerInput{
			UserID:    uuid.New(),
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
			FirstName: r.FormValue("firstName"),
			LastName:  r.FormValue("lastName"),
			Phone:     optionalFormValue(r, "phone"),
			FarmName:  r.FormValue("farmName"),
			Province:  r.FormValue("province"),
			District:  optionalFormValue(r, "district"),
		}
		if err := validators.ValidateStruct(&input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stored := make([]string, 0, len(r.MultipartForm.File))
		cleanup := func() {
			for _, path := range stored {
				_ = uploader.Discard(path)
			}
		}

		for field, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			docType, err := apps.FindDocumentTypeByCode(r.Context(), field)
			if err != nil {
				cleanup()
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve document type"))
				return
			}
			if docType == nil {
				cleanup()
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown document type: "+field))
				return
			}

			file, err := uploader.Accept(r.Context(), enums.UploadCategoryDocument, input.UserID, headers[0])
			if err != nil {
				cleanup()
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			stored = append(stored, file.RelPath)
			input.Documents = append(input.Documents, applications.DocumentInput{
				DocumentTypeID: docType.ID,
				FilePath:       file.RelPath,
				MimeType:       file.MimeType,
				SizeBytes:      file.SizeBytes,
			})
		}

		result, err := svc.RegisterFarmer(r.Context(), input)
		if err != nil {
			cleanup()
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthRegisterCompany handles company sign-up.
func AuthRegisterCompany(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.RegisterCompanyInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RegisterCompany(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AuthLogin exchanges credentials for a bearer token.
func AuthLogin(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AuthMe returns the caller's identity and role profile.
func AuthMe(svc *auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		profile, err := svc.Me(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func optionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}
