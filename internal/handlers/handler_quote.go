package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridgelinefuels/fuel_credit_app/internal/apperrors"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/dto"
	"github.com/ridgelinefuels/fuel_credit_app/internal/middleware"
)

// quoteHandler handles quote request intake and the admin quote list.
type quoteHandler struct {
	quoteService portssvc.QuoteSvcFacade
}

// newQuoteHandler creates a new quoteHandler.
func newQuoteHandler(qs portssvc.QuoteSvcFacade) *quoteHandler {
	return &quoteHandler{quoteService: qs}
}

// RegisterQuoteIntakeRoutes registers the public quote submission route.
func RegisterQuoteIntakeRoutes(rg *gin.RouterGroup, qs portssvc.QuoteSvcFacade) {
	h := newQuoteHandler(qs)
	rg.POST("/quotes", h.createQuote)
}

// RegisterQuoteAdminRoutes registers the operator quote routes.
func RegisterQuoteAdminRoutes(rg *gin.RouterGroup, qs portssvc.QuoteSvcFacade) {
	h := newQuoteHandler(qs)

	quotes := rg.Group("/quotes")
	{
		quotes.GET("", h.listQuotes)
		quotes.GET("/:id", h.getQuote)
	}
}

// createQuote godoc
// @Summary Submit a quote request
// @Description Accepts a delivery quote request from the public site. The whole payload is validated; any failure rejects the request with the field error list and nothing is stored.
// @Tags quotes
// @Accept  json
// @Produce json
// @Param   quote body dto.QuoteRequest true "Quote request"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.FieldErrorResponse "Validation failure with field list"
// @Failure 500 {object} ErrorResponse
// @Router /quotes [post]
func (h *quoteHandler) createQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.FieldErrorResponse{
			Error:  "validation failed",
			Fields: []dto.FieldErrorPayload{{Field: "quote", Reason: "malformed JSON"}},
		})
		return
	}

	quote, err := h.quoteService.CreateQuote(c.Request.Context(), req)
	if err != nil {
		var vErr *apperrors.ValidationError
		if errors.As(err, &vErr) {
			fields := make([]dto.FieldErrorPayload, len(vErr.Fields))
			for i, f := range vErr.Fields {
				fields[i] = dto.FieldErrorPayload{Field: f.Field, Reason: f.Reason}
			}
			c.JSON(http.StatusBadRequest, dto.FieldErrorResponse{Error: "validation failed", Fields: fields})
			return
		}
		logger.Error("Failed to create quote", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process quote request"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToQuoteResponse(quote))
}

// listQuotes godoc
// @Summary List quote requests
// @Description Retrieves a paginated list of quote requests, newest first.
// @Tags admin
// @Produce json
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListQuotesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/quotes [get]
func (h *quoteHandler) listQuotes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListQuotesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	quotes, err := h.quoteService.ListQuotes(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list quotes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list quotes"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListQuotesResponse(quotes))
}

// getQuote godoc
// @Summary Get a quote request
// @Description Retrieves a single quote request by ID.
// @Tags admin
// @Produce json
// @Param   id path string true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/quotes/{id} [get]
func (h *quoteHandler) getQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	quoteID := c.Param("id")

	quote, err := h.quoteService.GetQuoteByID(c.Request.Context(), quoteID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Quote not found"})
			return
		}
		logger.Error("Failed to get quote", slog.String("error", err.Error()), slog.String("quote_id", quoteID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve quote"})
		return
	}

	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}
