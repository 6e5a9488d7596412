package dto

import (
	"time"

	"github.com/ridgelinefuels/fuel_credit_app/internal/core/domain"
)

// QuoteRequest is the single-step quote/lead form. It shares the
// validate-then-all-or-nothing-submit pattern with the credit application
// but has no multi-step state machine.
type QuoteRequest struct {
	CompanyName  string   `json:"companyName" validate:"required"`
	ContactName  string   `json:"contactName" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone" validate:"required,usphone"`
	Products     []string `json:"products" validate:"required,min=1,dive,required"`
	DeliveryCity string   `json:"deliveryCity" validate:"required"`
	DeliveryZip  string   `json:"deliveryZip" validate:"required,zipcode"`
	Notes        string   `json:"notes" validate:"omitempty"`
}

// QuoteResponse is the admin view of a stored quote request.
type QuoteResponse struct {
	QuoteID      string    `json:"quoteID"`
	CompanyName  string    `json:"companyName"`
	ContactName  string    `json:"contactName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Products     []string  `json:"products"`
	DeliveryCity string    `json:"deliveryCity"`
	DeliveryZip  string    `json:"deliveryZip"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListQuotesParams defines query parameters for listing quotes.
type ListQuotesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListQuotesResponse wraps the quote list.
type ListQuotesResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
}

// ToQuoteResponse converts a domain.Quote to its DTO.
func ToQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		QuoteID:      q.QuoteID,
		CompanyName:  q.CompanyName,
		ContactName:  q.ContactName,
		Email:        q.Email,
		Phone:        q.Phone,
		Products:     q.Products,
		DeliveryCity: q.DeliveryCity,
		DeliveryZip:  q.DeliveryZip,
		Notes:        q.Notes,
		CreatedAt:    q.CreatedAt,
	}
}

// ToDomainQuote builds the domain entity from a validated request. The ID
// and audit fields are stamped by the service.
func ToDomainQuote(req QuoteRequest) domain.Quote {
	return domain.Quote{
		CompanyName:  req.CompanyName,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		Products:     req.Products,
		DeliveryCity: req.DeliveryCity,
		DeliveryZip:  req.DeliveryZip,
		Notes:        req.Notes,
	}
}

// ToListQuotesResponse converts a slice of domain quotes.
func ToListQuotesResponse(quotes []domain.Quote) ListQuotesResponse {
	res := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		res[i] = ToQuoteResponse(&quotes[i])
	}
	return ListQuotesResponse{Quotes: res}
}
