package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

func NewVendorRoutes(apiV1Group fiber.Router, ingest usecase.IngestUseCase, l logger.Interface) {
	r := &V1{ingest: ingest, logger: l}

	{
		apiV1Group.Post("/vendor/create", r.createVendor)
		apiV1Group.Post("/vendor/update", r.updateVendor)
	}
}

func NewWebhookRoutes(app fiber.Router, wh usecase.WebhookUseCase, l logger.Interface) {
	r := &V1{wh: wh, logger: l}

	{
		app.Post("/sap/webhook/status", r.receiveStatus)
		app.Get("/sap/webhook/test", r.webhookTest)
		app.Post("/sap/webhook/test", r.webhookTest)
	}
}
