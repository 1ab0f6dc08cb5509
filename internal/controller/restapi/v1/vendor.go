package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi/v1/response"
	"github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi/v1/validate"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
)

const correlationIDHeader = "X-Correlation-Id"

// @Summary  	Create vendor
// @Description Validates and queues a vendor master create request
// @Tags 		vendors
// @Accept 		json
// @Produce 	json
// @Param 		request body entity.VendorOperationRequest true "Vendor data and user context"
// @Success 	202 {object} response.Enqueue
// @Failure 	400 {object} response.ValidationError "Validation failed"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/vendor/create [post]
func (r *V1) createVendor(ctx *fiber.Ctx) error {
	return r.enqueueOperation(ctx, entity.OperationCreate)
}

// @Summary  	Update vendor
// @Description Validates and queues a vendor master update request
// @Tags 		vendors
// @Accept 		json
// @Produce 	json
// @Param 		request body entity.VendorOperationRequest true "Vendor data and user context"
// @Success 	202 {object} response.Enqueue
// @Failure 	400 {object} response.ValidationError "Validation failed"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/v1/vendor/update [post]
func (r *V1) updateVendor(ctx *fiber.Ctx) error {
	return r.enqueueOperation(ctx, entity.OperationUpdate)
}

func (r *V1) enqueueOperation(ctx *fiber.Ctx, kind entity.OperationKind) error {
	// 1. parse
	var req entity.VendorOperationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid request body")
	}

	// 2. validate, all violations at once
	if violations := validate.OperationRequest(req); len(violations) > 0 {
		return ctx.Status(http.StatusBadRequest).JSON(response.ValidationError{
			Error:  "validation failed",
			Errors: violations,
		})
	}

	// 3. optional client-supplied correlation id lets a retried
	// submission hit the dedup window instead of queueing twice
	correlationID := uuid.Nil
	if h := ctx.Get(correlationIDHeader); h != "" {
		id, err := uuid.Parse(h)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "invalid X-Correlation-Id header")
		}
		correlationID = id
	}

	// 4. enqueue, never blocking on downstream processing
	id, err := r.ingest.EnqueueOperation(ctx.UserContext(), req, kind, correlationID)
	if err != nil {
		r.logger.Error(err, "restapi - v1 - enqueueOperation")

		return ctx.Status(http.StatusInternalServerError).JSON(response.Error{
			Error:   "internal error",
			Message: "failed to queue the vendor operation",
		})
	}

	return ctx.Status(http.StatusAccepted).JSON(response.Enqueue{
		CorrelationID: id.String(),
		Status:        "queued",
		Message:       fmt.Sprintf("Vendor %s request accepted for processing", strings.ToLower(string(kind))),
	})
}
