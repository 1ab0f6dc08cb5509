package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/repo"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

// UseCase records statuses pushed over the fallback webhook channel.
// No reconciliation with the event stream happens here.
type UseCase struct {
	statuses repo.WebhookStatusRepo

	logger logger.Interface
}

func New(statuses repo.WebhookStatusRepo, l logger.Interface) *UseCase {
	return &UseCase{
		statuses: statuses,
		logger:   l,
	}
}

func (uc *UseCase) RecordStatus(ctx context.Context, payload entity.StatusWebhookPayload) error {
	row := &entity.WebhookStatus{
		ID:            uuid.New(),
		CorrelationID: payload.CorrelationID,
		Status:        payload.Status,
		VendorNumber:  payload.VendorNumber,
		ReceivedAt:    time.Now().UTC(),
		RemoteTime:    payload.Timestamp,
	}

	if payload.Message != "" {
		row.Message = &payload.Message
	}

	if len(payload.Errors) > 0 {
		b, err := json.Marshal(payload.Errors)
		if err != nil {
			return fmt.Errorf("WebhookUseCase - RecordStatus - json.Marshal: %w", err)
		}
		row.Errors = b
	}

	err := uc.statuses.Create(ctx, row)
	if err != nil {
		return fmt.Errorf("WebhookUseCase - RecordStatus - uc.statuses.Create: %w", err)
	}

	uc.logger.Info("WebhookUseCase - RecordStatus - correlationId=%s status=%s", payload.CorrelationID, payload.Status)

	return nil
}
