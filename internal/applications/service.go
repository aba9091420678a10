package applications

import (
	"context"
	"time"

	"github.com/agropazar/agropazar-backend/internal/notifications"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FileRemover deletes stored upload files during destructive workflow steps.
type FileRemover interface {
	Remove(relPath string) error
}

// Service drives the application review workflow. Every mutation validates
// the status transition against the central tables and runs inside a single
// transaction together with its notifications.
type Service struct {
	conn     *gorm.DB
	repo     *Repository
	notifier notifications.Service
	store    FileRemover
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the workflow service.
func NewService(conn *gorm.DB, repo *Repository, notifier notifications.Service, store FileRemover, logg *logger.Logger) (*Service, error) {
	if conn == nil || repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "applications repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification service required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file store required")
	}
	return &Service{
		conn:     conn,
		repo:     repo,
		notifier: notifier,
		store:    store,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// DocumentInput describes one uploaded file being attached to a submission.
type DocumentInput struct {
	DocumentTypeID uuid.UUID
	FilePath       string
	MimeType       string
	SizeBytes      int64
}

// SubmitInput is a new review envelope for a farm or product subject.
type SubmitInput struct {
	Type        enums.ApplicationType
	SubjectID   uuid.UUID
	ApplicantID uuid.UUID
	Documents   []DocumentInput
}

// SubmitTx files a new application inside a caller-owned transaction.
// Registration and product submission call this so the subject row and its
// review envelope commit together.
func (s *Service) SubmitTx(ctx context.Context, tx *gorm.DB, input SubmitInput) (*models.Application, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid application type")
	}
	if input.SubjectID == uuid.Nil || input.ApplicantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application subject and applicant required")
	}

	app := models.Application{
		Type:        input.Type,
		SubjectID:   input.SubjectID,
		ApplicantID: input.ApplicantID,
		Status:      enums.ApplicationStatusSubmitted,
	}
	for _, doc := range input.Documents {
		app.Documents = append(app.Documents, models.Document{
			DocumentTypeID: doc.DocumentTypeID,
			FilePath:       doc.FilePath,
			MimeType:       doc.MimeType,
			SizeBytes:      doc.SizeBytes,
			Status:         enums.DocumentStatusPending,
		})
	}

	if err := s.repo.WithTx(tx).Create(ctx, &app); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}
	return &app, nil
}

// Get loads an application with its documents.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	if app == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
	}
	return app, nil
}

// GetOwned loads an application and verifies the requester filed it.
func (s *Service) GetOwned(ctx context.Context, id, applicantID uuid.UUID) (*models.Application, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ApplicantID != applicantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
	}
	return app, nil
}

// ListParams filters the authority review queue.
type ListParams struct {
	Status *enums.ApplicationStatus
	Type   *enums.ApplicationType
	Limit  int
	Cursor string
}

// ListResult is one page of the review queue.
type ListResult struct {
	Items  []models.Application `json:"items"`
	Cursor string               `json:"cursor"`
}

// List pages applications for the authority queue.
func (s *Service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listApplicationsParams{
		Status: params.Status,
		Type:   params.Type,
		Limit:  params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	apps, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: apps, Cursor: cursor}, nil
}

// ListByApplicant returns the requester's own applications.
func (s *Service) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.Application, error) {
	apps, err := s.repo.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return apps, nil
}

// LatestByApplicant returns the applicant's most recent application of a type.
func (s *Service) LatestByApplicant(ctx context.Context, applicantID uuid.UUID, appType enums.ApplicationType) (*models.Application, error) {
	return s.repo.LatestByApplicant(ctx, applicantID, appType)
}

// StartReview moves a submitted application into review and stamps the
// reviewing admin.
func (s *Service) StartReview(ctx context.Context, adminID, applicationID uuid.UUID) (*models.Application, error) {
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(app, enums.ApplicationStatusUnderReview); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	err = s.repo.UpdateApplication(ctx, app.ID, map[string]any{
		"status":      enums.ApplicationStatusUnderReview,
		"reviewed_by": adminID,
		"reviewed_at": now,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
	}

	app.Status = enums.ApplicationStatusUnderReview
	app.ReviewedBy = &adminID
	app.ReviewedAt = &now
	return app, nil
}

// ApproveDocument marks one document approved.
func (s *Service) ApproveDocument(ctx context.Context, adminID, applicationID, documentID uuid.UUID) error {
	return s.reviewDocument(ctx, adminID, applicationID, documentID, enums.DocumentStatusApproved, nil)
}

// RejectDocument marks one document rejected with an optional note.
func (s *Service) RejectDocument(ctx context.Context, adminID, applicationID, documentID uuid.UUID, note *string) error {
	return s.reviewDocument(ctx, adminID, applicationID, documentID, enums.DocumentStatusRejected, note)
}

func (s *Service) reviewDocument(ctx context.Context, adminID, applicationID, documentID uuid.UUID, status enums.DocumentStatus, note *string) error {
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "application review is closed")
	}

	doc, err := s.findDocument(ctx, applicationID, documentID)
	if err != nil {
		return err
	}
	if !CanTransitionDocument(doc.Status, status) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "document cannot be reviewed in its current state").
			WithDetails(map[string]string{"from": doc.Status.String(), "to": status.String()})
	}

	now := s.now().UTC()
	err = s.repo.UpdateDocument(ctx, doc.ID, map[string]any{
		"status":      status,
		"review_note": note,
		"reviewed_by": adminID,
		"reviewed_at": now,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
	}
	return nil
}

// MarkDocumentMissing flags a document as missing with a mandatory
// admin-authored message, moves the application to missing-documents, and
// notifies the applicant. The writes and the notification share one
// transaction.
func (s *Service) MarkDocumentMissing(ctx context.Context, adminID, applicationID, documentID uuid.UUID, message string) error {
	if message == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a message describing the missing document is required")
	}

	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	doc, err := s.findDocument(ctx, applicationID, documentID)
	if err != nil {
		return err
	}
	if !CanTransitionDocument(doc.Status, enums.DocumentStatusMissing) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "document cannot be flagged missing in its current state")
	}
	if app.Status != enums.ApplicationStatusMissingDocuments {
		if err := s.transition(app, enums.ApplicationStatusMissingDocuments); err != nil {
			return err
		}
	}

	now := s.now().UTC()
	return db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		err := repo.UpdateDocument(ctx, doc.ID, map[string]any{
			"status":      enums.DocumentStatusMissing,
			"review_note": message,
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
		}

		if app.Status != enums.ApplicationStatusMissingDocuments {
			err = repo.UpdateApplication(ctx, app.ID, map[string]any{
				"status":      enums.ApplicationStatusMissingDocuments,
				"reviewed_by": adminID,
				"reviewed_at": now,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
			}
		}

		link := "/ciftlik/basvurular/" + app.ID.String()
		return s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:       app.ApplicantID,
			CategoryCode: enums.NotificationCodeMissingDocument,
			Title:        "Eksik belge",
			Message:      message,
			Link:         &link,
		})
	})
}

// ReplacementFile describes the already-stored upload replacing a missing
// document.
type ReplacementFile struct {
	RelPath   string
	MimeType  string
	SizeBytes int64
}

// ResubmitDocument lets the applicant replace a missing document. The old
// file is removed from disk, the row's path and review metadata are reset,
// and when no missing documents remain the application re-enters review.
// Reviewing admins are notified.
func (s *Service) ResubmitDocument(ctx context.Context, applicantID, applicationID, documentID uuid.UUID, file ReplacementFile) error {
	if file.RelPath == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "replacement file is required")
	}

	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.ApplicantID != applicantID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
	}
	doc, err := s.findDocument(ctx, applicationID, documentID)
	if err != nil {
		return err
	}
	if !CanTransitionDocument(doc.Status, enums.DocumentStatusResubmitted) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "document is not awaiting resubmission")
	}

	oldPath := doc.FilePath
	err = db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		err := repo.UpdateDocument(ctx, doc.ID, map[string]any{
			"file_path":   file.RelPath,
			"mime_type":   file.MimeType,
			"size_bytes":  file.SizeBytes,
			"status":      enums.DocumentStatusResubmitted,
			"review_note": nil,
			"reviewed_by": nil,
			"reviewed_at": nil,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
		}

		missing, err := repo.CountMissingDocuments(ctx, app.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count missing documents")
		}
		if missing == 0 && CanTransition(app.Status, enums.ApplicationStatusUnderReview) {
			err = repo.UpdateApplication(ctx, app.ID, map[string]any{
				"status": enums.ApplicationStatusUnderReview,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
			}
		}

		link := "/ziraat/basvurular/" + app.ID.String()
		return s.notifier.NotifyRoleTx(ctx, tx, enums.UserRoleAuthority, notifications.NotifyInput{
			CategoryCode: enums.NotificationCodeDocumentReview,
			Title:        "Belge güncellendi",
			Message:      "Başvuru sahibi eksik belgeyi yeniden yükledi.",
			Link:         &link,
		})
	})
	if err != nil {
		return err
	}

	// Old file removal happens after commit; a leaked file beats a DB row
	// pointing at a deleted one.
	if oldPath != "" && oldPath != file.RelPath {
		if rmErr := s.store.Remove(oldPath); rmErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to remove replaced document file")
		}
	}
	return nil
}

// Approve closes the review positively. All mandatory documents must already
// be approved; otherwise the call fails with a state conflict. Approval
// activates the underlying farm owner or product and notifies the applicant.
func (s *Service) Approve(ctx context.Context, adminID, applicationID uuid.UUID, note *string) error {
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.transition(app, enums.ApplicationStatusApproved); err != nil {
		return err
	}
	if err := s.ensureMandatoryDocumentsApproved(ctx, app); err != nil {
		return err
	}

	now := s.now().UTC()
	return db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		err := repo.UpdateApplication(ctx, app.ID, map[string]any{
			"status":      enums.ApplicationStatusApproved,
			"admin_note":  note,
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
		}

		if err := s.activateSubject(ctx, tx, app); err != nil {
			return err
		}

		return s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:       app.ApplicantID,
			CategoryCode: enums.NotificationCodeApplication,
			Title:        "Başvurunuz onaylandı",
			Message:      approvalMessage(app.Type),
		})
	})
}

// Reject closes the review negatively without touching the subject rows.
func (s *Service) Reject(ctx context.Context, adminID, applicationID uuid.UUID, reason string) error {
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a rejection reason is required")
	}

	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if err := s.transition(app, enums.ApplicationStatusRejected); err != nil {
		return err
	}

	now := s.now().UTC()
	return db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		err := repo.UpdateApplication(ctx, app.ID, map[string]any{
			"status":      enums.ApplicationStatusRejected,
			"admin_note":  reason,
			"reviewed_by": adminID,
			"reviewed_at": now,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
		}

		return s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:       app.ApplicantID,
			CategoryCode: enums.NotificationCodeApplication,
			Title:        "Başvurunuz reddedildi",
			Message:      reason,
		})
	})
}

// RejectAndDelete is the irreversible rejection: the underlying farm or
// product, the application and its document rows, and the stored files are
// all removed in one transaction. The application is gone afterwards.
func (s *Service) RejectAndDelete(ctx context.Context, adminID, applicationID uuid.UUID, reason string) error {
	if reason == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "a rejection reason is required")
	}

	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return err
	}
	if app.Status.IsTerminal() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "application review is closed")
	}

	paths := make([]string, 0, len(app.Documents))
	for _, doc := range app.Documents {
		if doc.FilePath != "" {
			paths = append(paths, doc.FilePath)
		}
	}

	err = db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := s.deleteSubject(ctx, tx, app); err != nil {
			return err
		}
		if err := repo.DeleteDocumentsByApplication(ctx, app.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete documents")
		}
		if err := repo.Delete(ctx, app.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete application")
		}

		return s.notifier.NotifyTx(ctx, tx, notifications.NotifyInput{
			UserID:       app.ApplicantID,
			CategoryCode: enums.NotificationCodeApplication,
			Title:        "Başvurunuz reddedildi",
			Message:      reason,
		})
	})
	if err != nil {
		return err
	}

	for _, path := range paths {
		if rmErr := s.store.Remove(path); rmErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "failed to remove rejected application file")
		}
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"application_id": app.ID.String(),
			"admin_id":       adminID.String(),
		})
		s.logg.Info(ctx, "application rejected and deleted")
	}
	return nil
}

func (s *Service) transition(app *models.Application, to enums.ApplicationStatus) error {
	if !CanTransition(app.Status, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "application status transition not allowed").
			WithDetails(map[string]string{"from": app.Status.String(), "to": to.String()})
	}
	return nil
}

func (s *Service) findDocument(ctx context.Context, applicationID, documentID uuid.UUID) (*models.Document, error) {
	doc, err := s.repo.FindDocument(ctx, applicationID, documentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	if doc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	}
	return doc, nil
}

// ensureMandatoryDocumentsApproved blocks approval while any mandatory
// document type is unapproved or not attached at all.
func (s *Service) ensureMandatoryDocumentsApproved(ctx context.Context, app *models.Application) error {
	var mandatory []models.DocumentType
	err := s.conn.WithContext(ctx).
		Where("mandatory = ?", true).
		Find(&mandatory).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document types")
	}
	if len(mandatory) == 0 {
		return nil
	}

	approvedByType := make(map[uuid.UUID]bool, len(app.Documents))
	for _, doc := range app.Documents {
		if doc.Status == enums.DocumentStatusApproved {
			approvedByType[doc.DocumentTypeID] = true
		}
	}

	var unapproved []string
	for _, dt := range mandatory {
		if !approvedByType[dt.ID] {
			unapproved = append(unapproved, dt.Name)
		}
	}
	if len(unapproved) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "mandatory documents are not fully approved").
			WithDetails(map[string]any{"unapproved": unapproved})
	}
	return nil
}

func (s *Service) activateSubject(ctx context.Context, tx *gorm.DB, app *models.Application) error {
	switch app.Type {
	case enums.ApplicationTypeFarm:
		err := tx.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", app.ApplicantID).
			UpdateColumn("status", enums.UserStatusActive).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate user")
		}
	case enums.ApplicationTypeProduct:
		err := tx.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", app.SubjectID).
			UpdateColumn("status", enums.ProductStatusActive).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate product")
		}
	}
	return nil
}

func (s *Service) deleteSubject(ctx context.Context, tx *gorm.DB, app *models.Application) error {
	switch app.Type {
	case enums.ApplicationTypeFarm:
		err := tx.WithContext(ctx).
			Delete(&models.Farm{}, "id = ?", app.SubjectID).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete farm")
		}
	case enums.ApplicationTypeProduct:
		err := tx.WithContext(ctx).
			Delete(&models.Product{}, "id = ?", app.SubjectID).Error
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
	}
	return nil
}

func approvalMessage(appType enums.ApplicationType) string {
	if appType == enums.ApplicationTypeProduct {
		return "Ürün başvurunuz onaylandı, ilanınız yayında."
	}
	return "Çiftlik başvurunuz onaylandı, hesabınız aktif."
}
