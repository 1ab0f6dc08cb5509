package persistent

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/pkg/postgres"
)

const (
	// Table
	dedupTable = "operation_dedup_keys"

	// Columns
	dedupCorrelationIDColumn = "correlation_id"
	dedupStatusColumn        = "status"
	dedupCreatedAtColumn     = "created_at"
	dedupProcessedAtColumn   = "processed_at"

	dedupStatusQueued    = "queued"
	dedupStatusProcessed = "processed"
)

type DedupKeyRepo struct {
	*postgres.Postgres
}

func NewDedupKeyRepo(pg *postgres.Postgres) *DedupKeyRepo {
	return &DedupKeyRepo{pg}
}

// Claim inserts the correlation id, returning false when it was already
// claimed. ON CONFLICT DO NOTHING keeps concurrent claims race-free.
func (r *DedupKeyRepo) Claim(ctx context.Context, correlationID uuid.UUID) (bool, error) {
	sql, args, err := r.Builder.
		Insert(dedupTable).
		Columns(dedupCorrelationIDColumn, dedupStatusColumn, dedupCreatedAtColumn).
		Values(correlationID, dedupStatusQueued, time.Now().UTC()).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", dedupCorrelationIDColumn)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("DedupKeyRepo - Claim - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("DedupKeyRepo - Claim - executor.Exec: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkProcessed flags the claim once the worker finished the message.
// A claim already purged by the janitor is not an error.
func (r *DedupKeyRepo) MarkProcessed(ctx context.Context, correlationID uuid.UUID) error {
	sql, args, err := r.Builder.
		Update(dedupTable).
		Set(dedupStatusColumn, dedupStatusProcessed).
		Set(dedupProcessedAtColumn, time.Now().UTC()).
		Where(squirrel.Eq{dedupCorrelationIDColumn: correlationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("DedupKeyRepo - MarkProcessed - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("DedupKeyRepo - MarkProcessed - executor.Exec: %w", err)
	}

	return nil
}

func (r *DedupKeyRepo) PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	sql, args, err := r.Builder.
		Delete(dedupTable).
		Where(squirrel.Lt{dedupCreatedAtColumn: cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("DedupKeyRepo - PurgeExpired - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("DedupKeyRepo - PurgeExpired - executor.Exec: %w", err)
	}

	return tag.RowsAffected(), nil
}
