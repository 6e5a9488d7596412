package dto

import (
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
)

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token string `json:"token"`
}

// CreateOperatorRequest provisions a new reviewer account.
type CreateOperatorRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// OperatorResponse is the public view of an operator.
type OperatorResponse struct {
	OperatorID string `json:"operatorID"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// ToOperatorResponse converts a domain.Operator to its DTO.
func ToOperatorResponse(op *domain.Operator) OperatorResponse {
	return OperatorResponse{
		OperatorID: op.OperatorID,
		Username:   op.Username,
		Name:       op.Name,
		Email:      op.Email,
	}
}
