package services

import (
	"context"
	"time"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
)

// OperatorReaderSvc defines read operations for operator accounts.
type OperatorReaderSvc interface {
	// GetOperatorByID retrieves an operator by ID.
	GetOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error)

	// GetOperatorByUsername retrieves an operator by username.
	GetOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error)
}

// OperatorWriterSvc defines write operations for operator accounts.
type OperatorWriterSvc interface {
	// CreateOperator creates a new operator account.
	CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*domain.Operator, error)

	// UpdateRefreshToken updates the refresh token details for an operator.
	UpdateRefreshToken(ctx context.Context, operatorID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error

	// ClearRefreshToken clears the refresh token for an operator.
	ClearRefreshToken(ctx context.Context, operatorID string) error
}

// OperatorAuthSvc defines operations for operator authentication.
type OperatorAuthSvc interface {
	// AuthenticateOperator authenticates an operator with username and password.
	AuthenticateOperator(ctx context.Context, username, password string) (*domain.Operator, error)

	// ResolveOperatorFromGoogle resolves an existing operator account from a
	// verified Google profile. Operators are a closed group; sign-ins from
	// emails with no operator account are rejected, never provisioned.
	ResolveOperatorFromGoogle(ctx context.Context, info *domain.GoogleUserInfo) (*domain.Operator, error)
}

// OperatorSvcFacade combines all operator-related service interfaces.
type OperatorSvcFacade interface {
	OperatorReaderSvc
	OperatorWriterSvc
	OperatorAuthSvc
}
