package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/platform/metrics"
	"github.com/ridgelinefuels/fuel_credit_app/internal/validation"
)

// quoteService implements the QuoteSvcFacade interface
type quoteService struct {
	BaseService
	quoteRepo portsrepo.QuoteRepositoryFacade
}

// NewQuoteService creates a new quote service
func NewQuoteService(repo portsrepo.QuoteRepositoryFacade) portssvc.QuoteSvcFacade {
	return &quoteService{quoteRepo: repo}
}

var _ portssvc.QuoteSvcFacade = (*quoteService)(nil)

// CreateQuote validates and persists a new quote request.
func (s *quoteService) CreateQuote(ctx context.Context, req dto.QuoteRequest) (*domain.Quote, error) {
	if err := validation.Quote(req); err != nil {
		s.LogInfo(ctx, "Quote request rejected by validation",
			slog.String("company_name", req.CompanyName))
		return nil, err
	}

	now := time.Now()
	quote := dto.ToDomainQuote(req)
	quote.QuoteID = uuid.NewString()
	quote.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     quote.QuoteID,
		LastUpdatedAt: now,
		LastUpdatedBy: quote.QuoteID,
	}

	if err := s.quoteRepo.SaveQuote(ctx, quote); err != nil {
		s.LogError(ctx, err, "Failed to persist quote request",
			slog.String("quote_id", quote.QuoteID))
		return nil, err
	}

	metrics.QuotesTotal.Inc()
	s.LogInfo(ctx, "Quote request received",
		slog.String("quote_id", quote.QuoteID),
		slog.String("company_name", quote.CompanyName))
	return &quote, nil
}

// GetQuoteByID retrieves a quote request by ID.
func (s *quoteService) GetQuoteByID(ctx context.Context, quoteID string) (*domain.Quote, error) {
	return s.quoteRepo.FindQuoteByID(ctx, quoteID)
}

// ListQuotes retrieves a paginated list of quote requests.
func (s *quoteService) ListQuotes(ctx context.Context, limit, offset int) ([]domain.Quote, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.quoteRepo.FindQuotes(ctx, limit, offset)
}
