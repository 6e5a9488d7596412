package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/storage"
	"github.com/ridgelinefuels/fuel_credit_app/internal/docgen"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/platform/metrics"
	"github.com/ridgelinefuels/fuel_credit_app/internal/utils"
	"github.com/ridgelinefuels/fuel_credit_app/internal/validation"
)

// applicationService implements the ApplicationSvcFacade interface
type applicationService struct {
	BaseService
	appRepo   portsrepo.ApplicationRepositoryFacade
	fileStore storage.FileStore
	analytics *utils.PosthogClientWrapper
}

// ApplicationServiceOption is a functional option for configuring the application service
type ApplicationServiceOption func(*applicationService)

// WithAnalyticsClient adds an analytics client for submission events
func WithAnalyticsClient(client *utils.PosthogClientWrapper) ApplicationServiceOption {
	return func(s *applicationService) {
		s.analytics = client
	}
}

// NewApplicationService creates a new application service with the provided options
func NewApplicationService(repo portsrepo.ApplicationRepositoryFacade, fileStore storage.FileStore, options ...ApplicationServiceOption) portssvc.ApplicationSvcFacade {
	svc := &applicationService{
		appRepo:   repo,
		fileStore: fileStore,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure applicationService implements the ApplicationSvcFacade interface
var _ portssvc.ApplicationSvcFacade = (*applicationService)(nil)

// stepOf extracts the form step from a field path like "owners[0].email".
func stepOf(fieldPath string) string {
	if i := strings.IndexAny(fieldPath, ".["); i > 0 {
		return fieldPath[:i]
	}
	return fieldPath
}

// SubmitApplication validates the full payload against the canonical schema,
// stores the uploaded files and the generated confirmation document, and
// persists the application record with its attachment rows in a single
// transaction. Nothing is persisted for an invalid payload.
func (s *applicationService) SubmitApplication(ctx context.Context, req dto.CreditApplicationRequest, files []portssvc.SubmittedFile, remoteIP string) (*domain.CreditApplication, error) {
	if err := validation.Application(req); err != nil {
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			for _, fe := range vErr.Fields {
				metrics.ValidationFailuresTotal.WithLabelValues(stepOf(fe.Field)).Inc()
			}
		}
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		s.LogInfo(ctx, "Application rejected by validation",
			slog.String("legal_name", req.CompanyInfo.LegalName))
		return nil, err
	}

	now := time.Now()
	appID := uuid.NewString()

	app := dto.ToDomainApplication(req)
	app.ApplicationID = appID
	app.Status = domain.StatusNew
	app.Agreements.SubmittedAt = now
	app.Agreements.SubmittedFromIP = remoteIP
	app.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     appID, // public submission, no authenticated actor
		LastUpdatedAt: now,
		LastUpdatedBy: appID,
	}

	var savedPaths []string
	cleanup := func() {
		for _, p := range savedPaths {
			if delErr := s.fileStore.Delete(ctx, p); delErr != nil {
				s.LogError(ctx, delErr, "Failed to clean up stored file",
					slog.String("path", p))
			}
		}
	}

	for _, f := range files {
		key := appID + "/" + f.Kind + path.Ext(f.FileName)
		storedPath, size, err := s.fileStore.Save(ctx, key, f.Content)
		if err != nil {
			cleanup()
			metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
			s.LogError(ctx, err, "Failed to store uploaded file",
				slog.String("kind", f.Kind))
			return nil, fmt.Errorf("failed to store uploaded file %s: %w", f.Kind, err)
		}
		savedPaths = append(savedPaths, storedPath)
		app.Attachments = append(app.Attachments, domain.Attachment{
			AttachmentID:  uuid.NewString(),
			ApplicationID: appID,
			Kind:          f.Kind,
			FileName:      f.FileName,
			ContentType:   f.ContentType,
			SizeBytes:     size,
			StoragePath:   storedPath,
			CreatedAt:     now,
		})
	}

	doc, err := docgen.Confirmation(&app)
	if err != nil {
		cleanup()
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		s.LogError(ctx, err, "Failed to render confirmation document",
			slog.String("application_id", appID))
		return nil, fmt.Errorf("failed to render confirmation document: %w", err)
	}
	docPath, _, err := s.fileStore.Save(ctx, appID+"/confirmation.html", bytes.NewReader(doc))
	if err != nil {
		cleanup()
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		s.LogError(ctx, err, "Failed to store confirmation document",
			slog.String("application_id", appID))
		return nil, fmt.Errorf("failed to store confirmation document: %w", err)
	}
	savedPaths = append(savedPaths, docPath)
	app.DocumentPath = docPath

	if err := s.appRepo.SaveApplication(ctx, app); err != nil {
		cleanup()
		metrics.SubmissionsTotal.WithLabelValues("failed").Inc()
		s.LogError(ctx, err, "Failed to persist application",
			slog.String("application_id", appID))
		return nil, fmt.Errorf("failed to persist application: %w", err)
	}

	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	if s.analytics != nil {
		s.analytics.Enqueue(appID, "application_submitted", map[string]any{
			"entity_type": string(app.CompanyInfo.EntityType),
			"owner_count": len(app.Owners),
			"products":    app.SalesProfile.Products,
		})
	}
	s.LogInfo(ctx, "Application submitted",
		slog.String("application_id", appID),
		slog.String("legal_name", app.CompanyInfo.LegalName))
	return &app, nil
}

// ReviewApplication applies an operator's status change and/or internal notes.
// Status changes must follow the review lifecycle: New to Under Review, then
// Under Review to Approved or Declined.
func (s *applicationService) ReviewApplication(ctx context.Context, applicationID string, req dto.UpdateApplicationRequest, reviewerID string) (*domain.CreditApplication, error) {
	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find application for review",
			slog.String("application_id", applicationID))
		return nil, err
	}

	status := app.Status
	if req.Status != nil {
		next := domain.ApplicationStatus(*req.Status)
		if next != app.Status {
			if !app.Status.CanTransitionTo(next) {
				err := fmt.Errorf("cannot transition from %q to %q: %w", app.Status, next, apperrors.ErrValidation)
				s.LogError(ctx, err, "Rejected status transition",
					slog.String("application_id", applicationID))
				return nil, err
			}
			status = next
		}
	}

	notes := req.InternalNotes
	// Reviewer stamps are set only when the status actually transitions;
	// a notes-only update must not overwrite who decided the application.
	var reviewedAt *time.Time
	if status != app.Status {
		now := time.Now()
		reviewedAt = &now
	}
	if err := s.appRepo.UpdateReview(ctx, applicationID, status, notes, reviewerID, reviewedAt); err != nil {
		s.LogError(ctx, err, "Failed to update application review",
			slog.String("application_id", applicationID))
		return nil, err
	}
	if status != app.Status {
		metrics.ReviewTransitionsTotal.WithLabelValues(string(status)).Inc()
	}
	s.LogInfo(ctx, "Application review updated",
		slog.String("application_id", applicationID),
		slog.String("status", string(status)),
		slog.String("reviewed_by", reviewerID))

	return s.appRepo.FindApplicationByID(ctx, applicationID)
}

// GetApplicationByID retrieves an application with its attachments.
func (s *applicationService) GetApplicationByID(ctx context.Context, applicationID string) (*domain.CreditApplication, error) {
	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		s.LogDebug(ctx, "Application not found",
			slog.String("application_id", applicationID))
		return nil, err
	}
	return app, nil
}

// ListApplications retrieves a paginated application list, optionally
// filtered by status.
func (s *applicationService) ListApplications(ctx context.Context, status string, limit, offset int) ([]domain.CreditApplication, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if status != "" && !domain.IsValidStatus(domain.ApplicationStatus(status)) {
		return nil, fmt.Errorf("unknown status %q: %w", status, apperrors.ErrValidation)
	}
	return s.appRepo.FindApplications(ctx, status, limit, offset)
}

// OpenDocument opens the stored confirmation document for an application.
func (s *applicationService) OpenDocument(ctx context.Context, applicationID string) (io.ReadCloser, error) {
	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.DocumentPath == "" {
		return nil, fmt.Errorf("application has no document: %w", apperrors.ErrNotFound)
	}
	return s.fileStore.Open(ctx, app.DocumentPath)
}

// OpenAttachment opens a stored attachment belonging to an application.
func (s *applicationService) OpenAttachment(ctx context.Context, applicationID string, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	app, err := s.appRepo.FindApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, nil, err
	}
	for i := range app.Attachments {
		if app.Attachments[i].AttachmentID == attachmentID {
			rc, err := s.fileStore.Open(ctx, app.Attachments[i].StoragePath)
			if err != nil {
				return nil, nil, err
			}
			return &app.Attachments[i], rc, nil
		}
	}
	return nil, nil, fmt.Errorf("attachment %s: %w", attachmentID, apperrors.ErrNotFound)
}
