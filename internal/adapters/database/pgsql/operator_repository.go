package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	"github.com/ridgelinefuels/fuel_credit_app/internal/models"
)

type PgxOperatorRepository struct {
	BaseRepository
}

func newPgxOperatorRepository(db *pgxpool.Pool) portsrepo.OperatorRepositoryFacade {
	return &PgxOperatorRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.OperatorRepositoryFacade = (*PgxOperatorRepository)(nil)

func toDomainOperator(m models.Operator) domain.Operator {
	d := domain.Operator{
		OperatorID:   m.OperatorID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Email:        m.Email,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
		DeletedAt: m.DeletedAt,
	}
	if m.RefreshTokenHash.Valid {
		d.RefreshTokenHash = m.RefreshTokenHash.String
	}
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiryTime = &t
	}
	return d
}

func (r *PgxOperatorRepository) SaveOperator(ctx context.Context, operator domain.Operator) error {
	query := `
        INSERT INTO operators (
            operator_id, username, password_hash, name, email,
            created_at, created_by, last_updated_at, last_updated_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.Pool.Exec(ctx, query,
		operator.OperatorID, operator.Username, operator.PasswordHash, operator.Name, operator.Email,
		operator.CreatedAt, operator.CreatedBy, operator.LastUpdatedAt, operator.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save operator: %w", err)
	}
	return nil
}

const operatorColumns = `
    operator_id, username, password_hash, name, email,
    created_at, created_by, last_updated_at, last_updated_by,
    deleted_at, refresh_token_hash, refresh_token_expiry_time
`

func scanOperator(row pgx.Row) (models.Operator, error) {
	var m models.Operator
	err := row.Scan(
		&m.OperatorID, &m.Username, &m.PasswordHash, &m.Name, &m.Email,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&m.DeletedAt, &m.RefreshTokenHash, &m.RefreshTokenExpiryTime,
	)
	return m, err
}

func (r *PgxOperatorRepository) findOperator(ctx context.Context, where string, arg any) (*domain.Operator, error) {
	query := `SELECT ` + operatorColumns + ` FROM operators WHERE ` + where + ` AND deleted_at IS NULL;`
	m, err := scanOperator(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find operator: %w", err)
	}
	operator := toDomainOperator(m)
	return &operator, nil
}

func (r *PgxOperatorRepository) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	return r.findOperator(ctx, "operator_id = $1", operatorID)
}

func (r *PgxOperatorRepository) FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	return r.findOperator(ctx, "username = $1", username)
}

func (r *PgxOperatorRepository) FindOperatorByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	return r.findOperator(ctx, "email = $1", email)
}

func (r *PgxOperatorRepository) UpdateRefreshToken(ctx context.Context, operatorID string, refreshTokenHash string, expiryTime time.Time) error {
	query := `
        UPDATE operators
        SET refresh_token_hash = $2, refresh_token_expiry_time = $3, last_updated_at = NOW()
        WHERE operator_id = $1 AND deleted_at IS NULL;
    `
	tag, err := r.Pool.Exec(ctx, query, operatorID, refreshTokenHash, expiryTime)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOperatorRepository) ClearRefreshToken(ctx context.Context, operatorID string) error {
	query := `
        UPDATE operators
        SET refresh_token_hash = NULL, refresh_token_expiry_time = NULL, last_updated_at = NOW()
        WHERE operator_id = $1 AND deleted_at IS NULL;
    `
	tag, err := r.Pool.Exec(ctx, query, operatorID)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
