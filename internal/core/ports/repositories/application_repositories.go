package repositories

import (
	"context"
	"time"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
)

// ApplicationReader defines read operations for credit applications.
type ApplicationReader interface {
	// FindApplicationByID retrieves an application with its attachments.
	FindApplicationByID(ctx context.Context, applicationID string) (*domain.CreditApplication, error)

	// FindApplications retrieves a paginated list, optionally filtered by
	// status, newest first. Attachments are included.
	FindApplications(ctx context.Context, status string, limit int, offset int) ([]domain.CreditApplication, error)
}

// ApplicationWriter defines write operations for credit applications.
type ApplicationWriter interface {
	// SaveApplication persists a new application record together with its
	// attachment rows and document reference in a single transaction.
	// Either everything commits or nothing does.
	SaveApplication(ctx context.Context, app domain.CreditApplication) error

	// UpdateReview applies an operator's status change and/or internal
	// notes to an existing application. reviewedAt is non-nil only when the
	// status changed; reviewed_by/reviewed_at are stamped only then, while
	// the audit fields always record the acting operator.
	UpdateReview(ctx context.Context, applicationID string, status domain.ApplicationStatus, internalNotes *string, reviewedBy string, reviewedAt *time.Time) error
}

// ApplicationRepositoryFacade combines all application repository interfaces.
type ApplicationRepositoryFacade interface {
	ApplicationReader
	ApplicationWriter
}

// ApplicationRepositoryWithTx extends ApplicationRepositoryFacade with
// transaction capabilities.
type ApplicationRepositoryWithTx interface {
	ApplicationRepositoryFacade
	TransactionManager
}
