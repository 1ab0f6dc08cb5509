package infrastructure

import (
	"context"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/dto"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/segmentio/kafka-go"
)

type (
	// VendorConnector is the single capability exposed by a remote
	// connection: invoke the vendor operation and report the outcome.
	// The correlation id doubles as the remote idempotency token.
	VendorConnector interface {
		InvokeVendorOperation(
			ctx context.Context,
			kind entity.OperationKind,
			vendor entity.VendorData,
			correlationID uuid.UUID,
		) (entity.ConnectorResult, error)

		// Identity reports which identity the connection represents:
		// the propagated caller identity or the shared service user.
		Identity() string
	}

	// ConnectionFactory opens a connection under the selected auth method.
	ConnectionFactory interface {
		ConnectionFor(ctx context.Context, user entity.UserContext, method entity.AuthMethod) (VendorConnector, error)
	}

	// CredentialResolver supplies system-account connection parameters.
	// It never fails: a secret store problem falls back to configuration.
	CredentialResolver interface {
		Resolve(ctx context.Context) dto.ConnectionParams
	}

	OperationsSender interface {
		SendOperation(ctx context.Context, msg *entity.VendorOperationMessage) error
		Close() error
	}

	StatusEventsSender interface {
		SendStatusEvent(ctx context.Context, event *entity.StatusEvent) error
		Close() error
	}

	// RedeliverySender is the queue-adapter side of retry-by-requeue.
	RedeliverySender interface {
		Requeue(ctx context.Context, msg kafka.Message, deliveryCount int) error
		DeadLetter(ctx context.Context, msg kafka.Message, reason string) error
	}
)
