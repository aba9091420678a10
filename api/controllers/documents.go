package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/internal/documents"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// DocumentServeByPath streams a stored file addressed by its relative path.
func DocumentServeByPath(svc *documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())

		rel := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if rel == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "file path required"))
			return
		}

		served, err := svc.OpenByPath(r.Context(), user, rel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer served.Close()

		streamFile(w, r, served)
	}
}

// DocumentServeByApplication streams a document addressed by its
// (application, document) id pair.
func DocumentServeByApplication(svc *documents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())

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

		served, err := svc.OpenApplicationDocument(r.Context(), user, appID, docID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer served.Close()

		streamFile(w, r, served)
	}
}

func streamFile(w http.ResponseWriter, r *http.Request, served *documents.ServedFile) {
	disposition := "inline"
	if r.URL.Query().Get("download") == "1" || !documents.InlineViewable(served.ContentType) {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", served.ContentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", served.Size))
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, served.Filename))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = io.Copy(w, served.File)
}
