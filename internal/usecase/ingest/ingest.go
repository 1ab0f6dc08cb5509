package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure"
	"github.com/procuredesk/sap-vendor-bridge/internal/repo"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

// UseCase enqueues validated vendor operation requests. It never waits on
// downstream processing: the message is claimed, produced and forgotten.
type UseCase struct {
	dedup repo.DedupKeyRepo
	queue infrastructure.OperationsSender

	logger logger.Interface
}

func New(dedup repo.DedupKeyRepo, queue infrastructure.OperationsSender, l logger.Interface) *UseCase {
	return &UseCase{
		dedup:  dedup,
		queue:  queue,
		logger: l,
	}
}

func (uc *UseCase) EnqueueOperation(
	ctx context.Context,
	req entity.VendorOperationRequest,
	kind entity.OperationKind,
	correlationID uuid.UUID,
) (uuid.UUID, error) {
	if correlationID == uuid.Nil {
		correlationID = uuid.New()
	}

	msg := entity.NewVendorOperationMessage(correlationID, kind, req)

	// 1. claim the dedup key; a repeated submission inside the window
	// keeps its correlation id but produces no second message
	claimed, err := uc.dedup.Claim(ctx, correlationID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("IngestUseCase - EnqueueOperation - uc.dedup.Claim: %w", err)
	}

	if !claimed {
		uc.logger.Info("IngestUseCase - EnqueueOperation - duplicate submission suppressed, correlationId=%s", correlationID)

		return correlationID, nil
	}

	// 2. enqueue
	err = uc.queue.SendOperation(ctx, msg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("IngestUseCase - EnqueueOperation - uc.queue.SendOperation: %w", err)
	}

	return correlationID, nil
}
