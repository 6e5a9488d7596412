package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/ridgelinefuels/fuel_credit_app/cmd/docs"
	portssvc "github.com/ridgelinefuels/fuel_credit_app/internal/core/ports/services"
	"github.com/ridgelinefuels/fuel_credit_app/internal/middleware"
	"github.com/ridgelinefuels/fuel_credit_app/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services)

	// Public intake routes (rate limited), operator admin routes (JWT)
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (non-production only)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 groups: the public intake surface
// and the JWT-protected admin surface.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Public intake endpoints sit behind an IP rate limit.
	rateFormat := cfg.IntakeRateLimit
	if rateFormat == "" {
		rateFormat = "30-M"
	}
	rate, err := limiter.NewRateFromFormatted(rateFormat)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("30-M")
	}
	intakeLimiter := limiter.New(memory.NewStore(), rate)

	public := r.Group("/api/v1", middleware.RateLimit(intakeLimiter))
	RegisterApplicationIntakeRoutes(public, services.Application, cfg)
	RegisterQuoteIntakeRoutes(public, services.Quote)

	// Operator surface: everything under /api/v1/admin requires a JWT.
	admin := r.Group("/api/v1/admin", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterApplicationAdminRoutes(admin, services.Application, cfg)
	RegisterQuoteAdminRoutes(admin, services.Quote)

	// Google OAuth code exchange for the admin frontend.
	oauth := r.Group("/api/v1/oauth")
	registerGoogleOAuthRoutes(oauth, services)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
