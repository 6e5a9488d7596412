package repositories

import (
	"context"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
)

// QuoteReader defines read operations for quote requests.
type QuoteReader interface {
	// FindQuoteByID retrieves a quote request by its ID.
	FindQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error)

	// FindQuotes retrieves a paginated list of quote requests, newest first.
	FindQuotes(ctx context.Context, limit int, offset int) ([]domain.Quote, error)
}

// QuoteWriter defines write operations for quote requests.
type QuoteWriter interface {
	// SaveQuote persists a new quote request.
	SaveQuote(ctx context.Context, quote domain.Quote) error
}

// QuoteRepositoryFacade combines all quote repository interfaces.
type QuoteRepositoryFacade interface {
	QuoteReader
	QuoteWriter
}
