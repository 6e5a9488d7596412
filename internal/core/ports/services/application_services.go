package services

import (
	"context"
	"io"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
)

// SubmittedFile is one uploaded document accompanying a credit application.
type SubmittedFile struct {
	Kind        string
	FileName    string
	ContentType string
	Content     io.Reader
}

// ApplicationReaderSvc defines read operations for credit applications.
type ApplicationReaderSvc interface {
	// GetApplicationByID retrieves an application with its attachments.
	GetApplicationByID(ctx context.Context, applicationID string) (*domain.CreditApplication, error)

	// ListApplications retrieves a paginated list of applications,
	// optionally filtered by status.
	ListApplications(ctx context.Context, status string, limit, offset int) ([]domain.CreditApplication, error)

	// OpenDocument opens the stored confirmation document for an application.
	OpenDocument(ctx context.Context, applicationID string) (io.ReadCloser, error)

	// OpenAttachment opens a stored attachment belonging to an application.
	OpenAttachment(ctx context.Context, applicationID string, attachmentID string) (*domain.Attachment, io.ReadCloser, error)
}

// ApplicationWriterSvc defines write operations for credit applications.
type ApplicationWriterSvc interface {
	// SubmitApplication validates a complete application payload, stores
	// its uploaded files, persists the record and generates the
	// confirmation document. On validation failure it returns an error
	// wrapping apperrors.ErrValidation and nothing is persisted.
	SubmitApplication(ctx context.Context, req dto.CreditApplicationRequest, files []SubmittedFile, remoteIP string) (*domain.CreditApplication, error)

	// ReviewApplication applies an operator's status change and/or
	// internal notes to an application.
	ReviewApplication(ctx context.Context, applicationID string, req dto.UpdateApplicationRequest, reviewerID string) (*domain.CreditApplication, error)
}

// ApplicationSvcFacade combines all application service interfaces.
type ApplicationSvcFacade interface {
	ApplicationReaderSvc
	ApplicationWriterSvc
}
