package services

import (
	portsrepo "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/repositories"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/storage"
	"github.com/ridgelinefuels/fuel_credit_app/internal/platform/config"
	"github.com/ridgelinefuels/fuel_credit_app/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, fileStore storage.FileStore, analytics *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Application = NewApplicationService(
		repos.ApplicationRepo,
		fileStore,
		WithAnalyticsClient(analytics),
	)
	container.Quote = NewQuoteService(repos.QuoteRepo)
	container.Operator = NewOperatorService(repos.OperatorRepo)

	container.TokenService = NewTokenService(cfg, container.Operator)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ApplicationSvcFacade = (*applicationService)(nil)
	_ portssvc.QuoteSvcFacade       = (*quoteService)(nil)
	_ portssvc.OperatorSvcFacade    = (*operatorService)(nil)
	_ portssvc.TokenSvcFacade       = (*tokenService)(nil)
)
