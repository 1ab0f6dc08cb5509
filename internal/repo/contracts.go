package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
)

type (
	// VendorMappingRepo owns the user id -> external vendor number records.
	// Upsert must be safe under concurrent duplicate deliveries.
	VendorMappingRepo interface {
		Upsert(ctx context.Context, userID, vendorNumber string) error
		GetByUserID(ctx context.Context, userID string) (*entity.VendorMapping, error)
	}

	// DedupKeyRepo implements the queue dedup window: Claim returns false
	// when the correlation id was already claimed inside the window.
	DedupKeyRepo interface {
		Claim(ctx context.Context, correlationID uuid.UUID) (bool, error)
		MarkProcessed(ctx context.Context, correlationID uuid.UUID) error
		PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	// WebhookStatusRepo records statuses pushed over the fallback channel.
	WebhookStatusRepo interface {
		Create(ctx context.Context, status *entity.WebhookStatus) error
		PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}
)
