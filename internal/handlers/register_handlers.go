package handlers

import (
	"github.com/SscSPs/ledger_core/cmd/docs"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/middleware"
	"github.com/SscSPs/ledger_core/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	breakers BreakerReporter,
) {
	r.GET("/health", getHealth(cfg.StoreDriver, breakers))

	setupAPIV1Routes(r, cfg, services)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group. Every ledger route is scoped to a company.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	company := v1.Group("/companies/:company_id")

	registerAccountRoutes(company, service.Account)
	registerTransactionRoutes(company, service.Transaction)
	registerReportingRoutes(company, service.Balance)
	registerLedgerRoutes(company, service.Ledger)
	registerSuggestionRoutes(company, service.Suggestion)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
