package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/utils"
)

// operatorService implements the OperatorSvcFacade interface
type operatorService struct {
	BaseService
	operatorRepo portsrepo.OperatorRepositoryFacade
}

// NewOperatorService creates a new operator service
func NewOperatorService(repo portsrepo.OperatorRepositoryFacade) portssvc.OperatorSvcFacade {
	return &operatorService{operatorRepo: repo}
}

var _ portssvc.OperatorSvcFacade = (*operatorService)(nil)

// GetOperatorByID retrieves an operator by ID.
func (s *operatorService) GetOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	return s.operatorRepo.FindOperatorByID(ctx, operatorID)
}

// GetOperatorByUsername retrieves an operator by username.
func (s *operatorService) GetOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	return s.operatorRepo.FindOperatorByUsername(ctx, username)
}

// CreateOperator creates a new operator account with a bcrypt password hash.
func (s *operatorService) CreateOperator(ctx context.Context, req dto.CreateOperatorRequest) (*domain.Operator, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	operator := domain.Operator{
		OperatorID:   uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.Username,
			LastUpdatedAt: now,
			LastUpdatedBy: req.Username,
		},
	}

	if err := s.operatorRepo.SaveOperator(ctx, operator); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("username or email already registered: %w", err)
		}
		s.LogError(ctx, err, "Failed to save operator",
			slog.String("username", req.Username))
		return nil, err
	}

	s.LogInfo(ctx, "Operator created",
		slog.String("operator_id", operator.OperatorID),
		slog.String("username", operator.Username))
	return &operator, nil
}

// UpdateRefreshToken updates the refresh token details for an operator.
func (s *operatorService) UpdateRefreshToken(ctx context.Context, operatorID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	return s.operatorRepo.UpdateRefreshToken(ctx, operatorID, refreshTokenHash, refreshTokenExpiryTime)
}

// ClearRefreshToken clears the refresh token for an operator.
func (s *operatorService) ClearRefreshToken(ctx context.Context, operatorID string) error {
	return s.operatorRepo.ClearRefreshToken(ctx, operatorID)
}

// AuthenticateOperator authenticates an operator with username and password.
// It returns apperrors.ErrUnauthorized for both unknown usernames and wrong
// passwords so callers cannot enumerate valid usernames.
func (s *operatorService) AuthenticateOperator(ctx context.Context, username, password string) (*domain.Operator, error) {
	operator, err := s.operatorRepo.FindOperatorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up operator",
			slog.String("username", username))
		return nil, err
	}
	if !utils.CheckPasswordHash(password, operator.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return operator, nil
}

// ResolveOperatorFromGoogle resolves an existing operator from a verified
// Google profile. Operators are a closed group provisioned through the
// register endpoint; a Google sign-in never creates an account, so unknown
// emails are rejected the same as unverified ones.
func (s *operatorService) ResolveOperatorFromGoogle(ctx context.Context, info *domain.GoogleUserInfo) (*domain.Operator, error) {
	if info == nil || !info.VerifiedEmail {
		return nil, fmt.Errorf("google account email not verified: %w", apperrors.ErrUnauthorized)
	}

	email := strings.ToLower(info.Email)
	operator, err := s.operatorRepo.FindOperatorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Rejected Google sign-in for unknown email",
				slog.String("email", email))
			return nil, fmt.Errorf("no operator account for %s: %w", email, apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	return operator, nil
}
