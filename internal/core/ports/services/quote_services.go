package services

import (
	"context"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
)

// QuoteReaderSvc defines read operations for quote requests.
type QuoteReaderSvc interface {
	// GetQuoteByID retrieves a quote request by ID.
	GetQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error)

	// ListQuotes retrieves a paginated list of quote requests.
	ListQuotes(ctx context.Context, limit, offset int) ([]domain.Quote, error)
}

// QuoteWriterSvc defines write operations for quote requests.
type QuoteWriterSvc interface {
	// CreateQuote validates and persists a new quote request.
	CreateQuote(ctx context.Context, req dto.QuoteRequest) (*domain.Quote, error)
}

// QuoteSvcFacade combines all quote service interfaces.
type QuoteSvcFacade interface {
	QuoteReaderSvc
	QuoteWriterSvc
}
