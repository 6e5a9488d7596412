package repositories

import (
	"context"
	"time"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
)

// OperatorReader defines read operations for operator accounts.
type OperatorReader interface {
	// FindOperatorByID retrieves an operator by ID.
	FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error)

	// FindOperatorByUsername retrieves an operator by username.
	FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error)

	// FindOperatorByEmail retrieves an operator by email address.
	FindOperatorByEmail(ctx context.Context, email string) (*domain.Operator, error)
}

// OperatorWriter defines write operations for operator accounts.
type OperatorWriter interface {
	// SaveOperator persists a new operator account.
	SaveOperator(ctx context.Context, operator domain.Operator) error
}

// OperatorLifecycleManager handles operator credential lifecycle operations.
type OperatorLifecycleManager interface {
	// UpdateRefreshToken stores the hash and expiry of a newly issued
	// refresh token for the operator.
	UpdateRefreshToken(ctx context.Context, operatorID string, refreshTokenHash string, expiryTime time.Time) error

	// ClearRefreshToken invalidates the operator's stored refresh token.
	ClearRefreshToken(ctx context.Context, operatorID string) error
}

// OperatorRepositoryFacade combines all operator repository interfaces.
type OperatorRepositoryFacade interface {
	OperatorReader
	OperatorWriter
	OperatorLifecycleManager
}
