package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/procuredesk/sap-vendor-bridge/config"
	v1 "github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi/v1"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

// @title SAP vendor bridge
// @version 1.0.0
// @host localhost:8080
// @BasePath /v1
func NewRouter(app *fiber.App, cfg *config.Config, ingest usecase.IngestUseCase, wh usecase.WebhookUseCase, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	apiV1Group := app.Group("/v1")
	{
		v1.NewVendorRoutes(apiV1Group, ingest, l)
	}

	// Fallback webhook channel, mounted at the path the remote system pushes to.
	v1.NewWebhookRoutes(app, wh, l)
}
