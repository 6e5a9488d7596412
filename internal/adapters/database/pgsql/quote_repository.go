package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	"github.com/ridgelinefuels/fuel_credit_app/internal/models"
)

type PgxQuoteRepository struct {
	BaseRepository
}

func newPgxQuoteRepository(db *pgxpool.Pool) portsrepo.QuoteRepositoryFacade {
	return &PgxQuoteRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.QuoteRepositoryFacade = (*PgxQuoteRepository)(nil)

func toModelQuote(d domain.Quote) models.Quote {
	return models.Quote{
		QuoteID:      d.QuoteID,
		CompanyName:  d.CompanyName,
		ContactName:  d.ContactName,
		Email:        d.Email,
		Phone:        d.Phone,
		Products:     d.Products,
		DeliveryCity: d.DeliveryCity,
		DeliveryZip:  d.DeliveryZip,
		Notes:        d.Notes,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainQuote(m models.Quote) domain.Quote {
	return domain.Quote{
		QuoteID:      m.QuoteID,
		CompanyName:  m.CompanyName,
		ContactName:  m.ContactName,
		Email:        m.Email,
		Phone:        m.Phone,
		Products:     m.Products,
		DeliveryCity: m.DeliveryCity,
		DeliveryZip:  m.DeliveryZip,
		Notes:        m.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *PgxQuoteRepository) SaveQuote(ctx context.Context, quote domain.Quote) error {
	m := toModelQuote(quote)
	query := `
        INSERT INTO quotes (
            quote_id, company_name, contact_name, email, phone, products,
            delivery_city, delivery_zip, notes,
            created_at, created_by, last_updated_at, last_updated_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
    `
	_, err := r.Pool.Exec(ctx, query,
		m.QuoteID, m.CompanyName, m.ContactName, m.Email, m.Phone, m.Products,
		m.DeliveryCity, m.DeliveryZip, m.Notes,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}
	return nil
}

const quoteColumns = `
    quote_id, company_name, contact_name, email, phone, products,
    delivery_city, delivery_zip, notes,
    created_at, created_by, last_updated_at, last_updated_by
`

func scanQuote(row pgx.Row) (models.Quote, error) {
	var m models.Quote
	err := row.Scan(
		&m.QuoteID, &m.CompanyName, &m.ContactName, &m.Email, &m.Phone, &m.Products,
		&m.DeliveryCity, &m.DeliveryZip, &m.Notes,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxQuoteRepository) FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE quote_id = $1;`
	m, err := scanQuote(r.Pool.QueryRow(ctx, query, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quote %s: %w", quoteID, err)
	}
	quote := toDomainQuote(m)
	return &quote, nil
}

func (r *PgxQuoteRepository) FindQuotes(ctx context.Context, limit int, offset int) ([]domain.Quote, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + quoteColumns + ` FROM quotes ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []domain.Quote
	for rows.Next() {
		m, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote row: %w", err)
		}
		quotes = append(quotes, toDomainQuote(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quote rows: %w", err)
	}
	return quotes, nil
}
