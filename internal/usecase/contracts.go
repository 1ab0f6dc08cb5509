package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
)

type (
	// IngestUseCase accepts a validated vendor operation request and places
	// it on the queue. Passing uuid.Nil generates a fresh correlation id;
	// a non-nil id lets a retried submission reuse the dedup key.
	IngestUseCase interface {
		EnqueueOperation(
			ctx context.Context,
			req entity.VendorOperationRequest,
			kind entity.OperationKind,
			correlationID uuid.UUID,
		) (uuid.UUID, error)
	}

	// VendorOpsUseCase processes one queued message end to end. A returned
	// error means the failure is retryable and the queue adapter should
	// redeliver; a nil return means the message is fully processed, which
	// includes remote business rejections surfaced as failure events.
	VendorOpsUseCase interface {
		ProcessOperation(ctx context.Context, msg entity.VendorOperationMessage) error
	}

	// WebhookUseCase records a status pushed over the fallback channel.
	WebhookUseCase interface {
		RecordStatus(ctx context.Context, payload entity.StatusWebhookPayload) error
	}
)
