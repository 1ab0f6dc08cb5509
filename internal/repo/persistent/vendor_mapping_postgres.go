package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/pkg/postgres"
	"github.com/procuredesk/sap-vendor-bridge/pkg/types/errs"
)

const (
	// Table
	mappingsTable = "vendor_mappings"

	// Columns
	mappingUserIDColumn       = "user_id"
	mappingVendorNumberColumn = "vendor_number"
	mappingCreatedAtColumn    = "created_at"
	mappingUpdatedAtColumn    = "updated_at"
)

type VendorMappingRepo struct {
	*postgres.Postgres
}

func NewVendorMappingRepo(pg *postgres.Postgres) *VendorMappingRepo {
	return &VendorMappingRepo{pg}
}

// Upsert writes the mapping with last-write-wins semantics; duplicate
// deliveries for the same user id cannot corrupt the record.
func (r *VendorMappingRepo) Upsert(ctx context.Context, userID, vendorNumber string) error {
	now := time.Now().UTC()

	sql, args, err := r.Builder.
		Insert(mappingsTable).
		Columns(
			mappingUserIDColumn,
			mappingVendorNumberColumn,
			mappingCreatedAtColumn,
			mappingUpdatedAtColumn,
		).
		Values(userID, vendorNumber, now, now).
		Suffix(fmt.Sprintf(
			"ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s, %s = EXCLUDED.%s",
			mappingUserIDColumn,
			mappingVendorNumberColumn, mappingVendorNumberColumn,
			mappingUpdatedAtColumn, mappingUpdatedAtColumn,
		)).
		ToSql()
	if err != nil {
		return fmt.Errorf("VendorMappingRepo - Upsert - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	_, err = executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("VendorMappingRepo - Upsert - executor.Exec: %w", err)
	}

	return nil
}

func (r *VendorMappingRepo) GetByUserID(ctx context.Context, userID string) (*entity.VendorMapping, error) {
	sql, args, err := r.Builder.
		Select(
			mappingUserIDColumn,
			mappingVendorNumberColumn,
			mappingCreatedAtColumn,
			mappingUpdatedAtColumn,
		).
		From(mappingsTable).
		Where(squirrel.Eq{mappingUserIDColumn: userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("VendorMappingRepo - GetByUserID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var mapping entity.VendorMapping
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&mapping.UserID,
		&mapping.VendorNumber,
		&mapping.CreatedAt,
		&mapping.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("VendorMappingRepo - GetByUserID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("VendorMappingRepo - GetByUserID - executor.QueryRow: %w", err)
	}

	return &mapping, nil
}
