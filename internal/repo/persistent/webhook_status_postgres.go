package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/pkg/postgres"
)

const (
	// Table
	webhookTable = "webhook_statuses"

	// Columns
	webhookIDColumn            = "id"
	webhookCorrelationIDColumn = "correlation_id"
	webhookStatusColumn        = "status"
	webhookVendorNumberColumn  = "vendor_number"
	webhookMessageColumn       = "message"
	webhookErrorsColumn        = "errors"
	webhookReceivedAtColumn    = "received_at"
	webhookRemoteTimeColumn    = "remote_time"
)

type WebhookStatusRepo struct {
	*postgres.Postgres
}

func NewWebhookStatusRepo(pg *postgres.Postgres) *WebhookStatusRepo {
	return &WebhookStatusRepo{pg}
}

func (r *WebhookStatusRepo) Create(ctx context.Context, status *entity.WebhookStatus) error {
	sql, args, err := r.Builder.
		Insert(webhookTable).
		Columns(
			webhookIDColumn,
			webhookCorrelationIDColumn,
			webhookStatusColumn,
			webhookVendorNumberColumn,
			webhookMessageColumn,
			webhookErrorsColumn,
			webhookReceivedAtColumn,
			webhookRemoteTimeColumn,
		).
		Values(
			status.ID,
			status.CorrelationID,
			status.Status,
			status.VendorNumber,
			status.Message,
			status.Errors,
			status.ReceivedAt,
			status.RemoteTime,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("WebhookStatusRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("WebhookStatusRepo - Create - executor.Exec: %w", err)
	}

	return nil
}

func (r *WebhookStatusRepo) PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	sql, args, err := r.Builder.
		Delete(webhookTable).
		Where(squirrel.Lt{webhookReceivedAtColumn: cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("WebhookStatusRepo - PurgeExpired - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("WebhookStatusRepo - PurgeExpired - executor.Exec: %w", err)
	}

	return tag.RowsAffected(), nil
}
