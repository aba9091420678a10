package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/api/validators"
	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/uploads"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

// ApplicationsListOwn returns the caller's own applications.
func ApplicationsListOwn(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		apps, err := svc.ListByApplicant(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, apps)
	}
}

// ApplicationsGetOwn returns one of the caller's applications with documents.
func ApplicationsGetOwn(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.GetOwned(r.Context(), appID, user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, app)
	}
}

// ApplicationResubmitDocument uploads a replacement for a missing document.
func ApplicationResubmitDocument(svc *applications.Service, uploader *uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(uploadFormLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		_, header, err := r.FormFile("belge")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "belge file field is required"))
			return
		}

		stored, err := uploader.Accept(r.Context(), enums.UploadCategoryDocument, user.ID, header)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.ResubmitDocument(r.Context(), user.ID, appID, docID, applications.ReplacementFile{
			RelPath:   stored.RelPath,
			MimeType:  stored.MimeType,
			SizeBytes: stored.SizeBytes,
		})
		if err != nil {
			_ = uploader.Discard(stored.RelPath)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"resubmitted": true})
	}
}

// AdminApplicationsList pages the authority review queue.
func AdminApplicationsList(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := applications.ListParams{
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		params.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseApplicationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			params.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			appType, err := enums.ParseApplicationType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			params.Type = &appType
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminApplicationGet returns one application with documents.
func AdminApplicationGet(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.Get(r.Context(), appID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, app)
	}
}

// AdminApplicationStartReview claims a submitted application for review.
func AdminApplicationStartReview(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := middleware.UserFromContext(r.Context())
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		app, err := svc.StartReview(r.Context(), admin.ID, appID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, app)
	}
}

type documentDecisionRequest struct {
	Note *string `json:"note" validate:"omitempty,max=1000"`
}

// AdminDocumentApprove marks one document approved.
func AdminDocumentApprove(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := middleware.UserFromContext(r.Context())
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ApproveDocument(r.Context(), admin.ID, appID, docID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"approved": true})
	}
}

// AdminDocumentReject marks one document rejected.
func AdminDocumentReject(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := middleware.UserFromContext(r.Context())
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body documentDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RejectDocument(r.Context(), admin.ID, appID, docID, body.Note); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"rejected": true})
	}
}

type markMissingRequest struct {
	Message string `json:"message" validate:"required,min=3,max=1000"`
}

// AdminDocumentMarkMissing flags a document missing with a mandatory message.
func AdminDocumentMarkMissing(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := middleware.UserFromContext(r.Context())
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		docID, err := pathUUID(r, "documentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body markMissingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkDocumentMissing(r.Context(), admin.ID, appID, docID, body.Message); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"missing": true})
	}
}

// AdminApplicationApprove closes the review positively.
func AdminApplicationApprove(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := middleware.UserFromContext(r.Context())
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body documentDecisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Approve(r.Context(), admin.ID, appID, body.Note); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"approved": true})
	}
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// AdminApplicationReject closes the review negatively.
func AdminApplicationReject(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := middleware.UserFromContext(r.Context())
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Reject(r.Context(), admin.ID, appID, body.Reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"rejected": true})
	}
}

// AdminApplicationRejectAndDelete irreversibly rejects and purges the
// application, its subject, and the stored files.
func AdminApplicationRejectAndDelete(svc *applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := middleware.UserFromContext(r.Context())
		if admin == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		appID, err := pathUUID(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body rejectRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RejectAndDelete(r.Context(), admin.ID, appID, body.Reason); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
