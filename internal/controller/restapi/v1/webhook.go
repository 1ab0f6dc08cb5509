package v1

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi/v1/response"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
)

// @Summary  	Receive status webhook
// @Description Fallback channel for statuses pushed by the remote system
// @Tags 		webhooks
// @Accept 		json
// @Produce 	json
// @Param 		payload body entity.StatusWebhookPayload true "Status payload"
// @Success 	200 {object} response.WebhookAck
// @Failure 	400 {object} response.Error "Invalid payload"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/sap/webhook/status [post]
func (r *V1) receiveStatus(ctx *fiber.Ctx) error {
	var payload entity.StatusWebhookPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid payload")
	}

	if strings.TrimSpace(payload.CorrelationID) == "" || strings.TrimSpace(payload.Status) == "" {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid payload")
	}

	err := r.wh.RecordStatus(ctx.UserContext(), payload)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - receiveStatus")

		return errorResponse(ctx, http.StatusInternalServerError, "failed to record status")
	}

	return ctx.Status(http.StatusOK).JSON(response.WebhookAck{
		Message:       "Status received",
		CorrelationID: payload.CorrelationID,
	})
}

// @Summary  	Webhook connectivity probe
// @Tags 		webhooks
// @Produce 	json
// @Success 	200 {object} response.WebhookAck
// @Router 		/sap/webhook/test [get]
func (r *V1) webhookTest(ctx *fiber.Ctx) error {
	return ctx.Status(http.StatusOK).JSON(response.WebhookAck{
		Message: "SAP status webhook is reachable",
	})
}
