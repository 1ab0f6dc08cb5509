package vendorops

import (
	"context"
	"fmt"
	"time"

	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure"
	"github.com/procuredesk/sap-vendor-bridge/internal/repo"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

// UseCase is the vendor operation worker body. It owns the lifecycle of
// the ConnectorResult and the StatusEvent for each message it processes.
type UseCase struct {
	connections infrastructure.ConnectionFactory
	events      infrastructure.StatusEventsSender
	mappings    repo.VendorMappingRepo
	dedup       repo.DedupKeyRepo
	transactor  repo.Transactor

	logger logger.Interface
}

func New(
	connections infrastructure.ConnectionFactory,
	events infrastructure.StatusEventsSender,
	mappings repo.VendorMappingRepo,
	dedup repo.DedupKeyRepo,
	transactor repo.Transactor,
	l logger.Interface,
) *UseCase {
	return &UseCase{
		connections: connections,
		events:      events,
		mappings:    mappings,
		dedup:       dedup,
		transactor:  transactor,
		logger:      l,
	}
}

// ProcessOperation runs one message to completion. A returned error is
// retryable and must cause redelivery; a remote business rejection is a
// completed operation that simply publishes a failure event.
func (uc *UseCase) ProcessOperation(ctx context.Context, msg entity.VendorOperationMessage) error {
	started := time.Now()

	// 1. pick the authentication strategy
	method := entity.SelectAuthMethod(msg.UserContext)

	// 2. open the connection under that identity
	conn, err := uc.connections.ConnectionFor(ctx, msg.UserContext, method)
	if err != nil {
		uc.publishFailure(ctx, msg, method, started, err)

		return fmt.Errorf("VendorOpsUseCase - ProcessOperation - uc.connections.ConnectionFor: %w", err)
	}

	uc.logger.Debug("VendorOpsUseCase - ProcessOperation - correlationId=%s auth=%s identity=%s",
		msg.CorrelationID, method, conn.Identity())

	// 3. invoke the remote operation
	result, err := conn.InvokeVendorOperation(ctx, msg.Operation, msg.Vendor, msg.CorrelationID)
	if err != nil {
		uc.publishFailure(ctx, msg, method, started, err)

		return fmt.Errorf("VendorOpsUseCase - ProcessOperation - conn.InvokeVendorOperation: %w", err)
	}

	if !result.Success {
		// remote business rejection: surfaced through the event stream,
		// not retried by redelivery
		uc.publishEvent(ctx, &entity.StatusEvent{
			CorrelationID: msg.CorrelationID,
			Status:        entity.StatusFailure,
			Errors:        result.Errors,
			Timestamp:     time.Now().UTC(),
			DurationMS:    time.Since(started).Milliseconds(),
			AuthMethod:    method,
		})

		return nil
	}

	// 4. persist the mapping for invited vendors
	if msg.UserContext.Role == entity.RoleVendor {
		err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := uc.mappings.Upsert(ctx, msg.UserContext.UserID, result.VendorNumber); err != nil {
				return fmt.Errorf("VendorOpsUseCase - ProcessOperation - uc.mappings.Upsert: %w", err)
			}

			if err := uc.dedup.MarkProcessed(ctx, msg.CorrelationID); err != nil {
				return fmt.Errorf("VendorOpsUseCase - ProcessOperation - uc.dedup.MarkProcessed: %w", err)
			}

			return nil
		})
		if err != nil {
			uc.publishFailure(ctx, msg, method, started, err)

			return fmt.Errorf("VendorOpsUseCase - ProcessOperation - uc.transactor.WithinTransaction: %w", err)
		}
	} else {
		if err := uc.dedup.MarkProcessed(ctx, msg.CorrelationID); err != nil {
			uc.logger.Error(err, "VendorOpsUseCase - ProcessOperation - uc.dedup.MarkProcessed")
		}
	}

	// 5. publish the outcome
	uc.publishEvent(ctx, &entity.StatusEvent{
		CorrelationID: msg.CorrelationID,
		Status:        entity.StatusSuccess,
		VendorNumber:  result.VendorNumber,
		Timestamp:     time.Now().UTC(),
		DurationMS:    time.Since(started).Milliseconds(),
		AuthMethod:    method,
	})

	return nil
}

// publishEvent is best effort: a publish failure must never change the
// outcome of the operation itself.
func (uc *UseCase) publishEvent(ctx context.Context, event *entity.StatusEvent) {
	if err := uc.events.SendStatusEvent(ctx, event); err != nil {
		uc.logger.Error(err, "VendorOpsUseCase - publishEvent - uc.events.SendStatusEvent")
	}
}

func (uc *UseCase) publishFailure(
	ctx context.Context,
	msg entity.VendorOperationMessage,
	method entity.AuthMethod,
	started time.Time,
	cause error,
) {
	uc.publishEvent(ctx, &entity.StatusEvent{
		CorrelationID: msg.CorrelationID,
		Status:        entity.StatusFailure,
		Errors:        []string{cause.Error()},
		Timestamp:     time.Now().UTC(),
		DurationMS:    time.Since(started).Milliseconds(),
		AuthMethod:    method,
	})
}
