package vendorops_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase/vendorops"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnector struct {
	result    entity.ConnectorResult
	invokeErr error

	gotKind          entity.OperationKind
	gotCorrelationID uuid.UUID
}

func (f *fakeConnector) InvokeVendorOperation(
	_ context.Context,
	kind entity.OperationKind,
	_ entity.VendorData,
	correlationID uuid.UUID,
) (entity.ConnectorResult, error) {
	f.gotKind = kind
	f.gotCorrelationID = correlationID

	return f.result, f.invokeErr
}

func (f *fakeConnector) Identity() string { return "test-identity" }

type fakeFactory struct {
	conn       *fakeConnector
	connectErr error
	gotMethod  entity.AuthMethod
}

func (f *fakeFactory) ConnectionFor(
	_ context.Context,
	_ entity.UserContext,
	method entity.AuthMethod,
) (infrastructure.VendorConnector, error) {
	f.gotMethod = method

	if f.connectErr != nil {
		return nil, f.connectErr
	}

	return f.conn, nil
}

type fakeEvents struct {
	published []*entity.StatusEvent
	sendErr   error
}

func (f *fakeEvents) SendStatusEvent(_ context.Context, event *entity.StatusEvent) error {
	f.published = append(f.published, event)

	return f.sendErr
}

func (f *fakeEvents) Close() error { return nil }

type fakeMappings struct {
	upsertedUserID string
	upsertedNumber string
	upsertErr      error
}

func (f *fakeMappings) Upsert(_ context.Context, userID, vendorNumber string) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}

	f.upsertedUserID = userID
	f.upsertedNumber = vendorNumber

	return nil
}

func (f *fakeMappings) GetByUserID(context.Context, string) (*entity.VendorMapping, error) {
	return nil, nil
}

type fakeDedup struct {
	marked []uuid.UUID
}

func (f *fakeDedup) Claim(context.Context, uuid.UUID) (bool, error) { return true, nil }

func (f *fakeDedup) MarkProcessed(_ context.Context, correlationID uuid.UUID) error {
	f.marked = append(f.marked, correlationID)

	return nil
}

func (f *fakeDedup) PurgeExpired(context.Context, time.Duration) (int64, error) { return 0, nil }

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

func vendorMessage(role entity.Role) entity.VendorOperationMessage {
	uc := entity.UserContext{Role: role, UserID: "u-7"}
	switch role {
	case entity.RoleVendor:
		uc.InvitationToken = "tok"
	case entity.RoleApprover:
		uc.AADUserID = "aad-42"
	}

	return entity.VendorOperationMessage{
		CorrelationID: uuid.New(),
		Operation:     entity.OperationCreate,
		Timestamp:     time.Now().UTC(),
		Vendor:        entity.VendorData{Name: "Acme GmbH", TaxID: "DE123456789"},
		UserContext:   uc,
	}
}

func newUseCase(factory *fakeFactory, events *fakeEvents, mappings *fakeMappings, dedup *fakeDedup) *vendorops.UseCase {
	return vendorops.New(factory, events, mappings, dedup, fakeTransactor{}, logger.New("error"))
}

func TestProcessOperation_VendorSuccess(t *testing.T) {
	conn := &fakeConnector{result: entity.ConnectorResult{Success: true, VendorNumber: "0000100042"}}
	factory := &fakeFactory{conn: conn}
	events := &fakeEvents{}
	mappings := &fakeMappings{}
	dedup := &fakeDedup{}

	msg := vendorMessage(entity.RoleVendor)
	err := newUseCase(factory, events, mappings, dedup).ProcessOperation(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, entity.AuthSystemAccount, factory.gotMethod)
	assert.Equal(t, msg.CorrelationID, conn.gotCorrelationID)

	assert.Equal(t, "u-7", mappings.upsertedUserID)
	assert.Equal(t, "0000100042", mappings.upsertedNumber)
	assert.Equal(t, []uuid.UUID{msg.CorrelationID}, dedup.marked)

	require.Len(t, events.published, 1)
	event := events.published[0]
	assert.Equal(t, entity.StatusSuccess, event.Status)
	assert.Equal(t, msg.CorrelationID, event.CorrelationID)
	assert.Equal(t, "0000100042", event.VendorNumber)
	assert.Equal(t, entity.AuthSystemAccount, event.AuthMethod)
}

func TestProcessOperation_ApproverSuccess(t *testing.T) {
	conn := &fakeConnector{result: entity.ConnectorResult{Success: true, VendorNumber: "0000100043"}}
	factory := &fakeFactory{conn: conn}
	events := &fakeEvents{}
	mappings := &fakeMappings{}
	dedup := &fakeDedup{}

	msg := vendorMessage(entity.RoleApprover)
	err := newUseCase(factory, events, mappings, dedup).ProcessOperation(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, entity.AuthIdentityPropagation, factory.gotMethod)
	assert.Empty(t, mappings.upsertedUserID, "approver operations must not write a vendor mapping")

	require.Len(t, events.published, 1)
	assert.Equal(t, entity.AuthIdentityPropagation, events.published[0].AuthMethod)
}

func TestProcessOperation_RemoteRejection(t *testing.T) {
	conn := &fakeConnector{result: entity.ConnectorResult{Success: false, Errors: []string{"Vendor already exists"}}}
	factory := &fakeFactory{conn: conn}
	events := &fakeEvents{}
	mappings := &fakeMappings{}
	dedup := &fakeDedup{}

	msg := vendorMessage(entity.RoleVendor)
	err := newUseCase(factory, events, mappings, dedup).ProcessOperation(context.Background(), msg)
	require.NoError(t, err, "a business rejection is a completed operation, not a retryable failure")

	assert.Empty(t, mappings.upsertedUserID)
	assert.Empty(t, dedup.marked)

	require.Len(t, events.published, 1)
	event := events.published[0]
	assert.Equal(t, entity.StatusFailure, event.Status)
	assert.Equal(t, []string{"Vendor already exists"}, event.Errors)
}

func TestProcessOperation_TransportError(t *testing.T) {
	conn := &fakeConnector{invokeErr: errors.New("gateway timeout")}
	factory := &fakeFactory{conn: conn}
	events := &fakeEvents{}

	msg := vendorMessage(entity.RoleVendor)
	err := newUseCase(factory, events, &fakeMappings{}, &fakeDedup{}).ProcessOperation(context.Background(), msg)
	require.Error(t, err, "a transport failure must surface for redelivery")

	require.Len(t, events.published, 1)
	assert.Equal(t, entity.StatusFailure, events.published[0].Status)
}

func TestProcessOperation_ConnectionError(t *testing.T) {
	factory := &fakeFactory{connectErr: errors.New("assertion signing failed")}
	events := &fakeEvents{}

	msg := vendorMessage(entity.RoleApprover)
	err := newUseCase(factory, events, &fakeMappings{}, &fakeDedup{}).ProcessOperation(context.Background(), msg)
	require.Error(t, err)

	require.Len(t, events.published, 1)
	assert.Equal(t, entity.StatusFailure, events.published[0].Status)
}

func TestProcessOperation_MappingFailureIsRetryable(t *testing.T) {
	conn := &fakeConnector{result: entity.ConnectorResult{Success: true, VendorNumber: "0000100044"}}
	factory := &fakeFactory{conn: conn}
	events := &fakeEvents{}
	mappings := &fakeMappings{upsertErr: errors.New("db down")}

	msg := vendorMessage(entity.RoleVendor)
	err := newUseCase(factory, events, mappings, &fakeDedup{}).ProcessOperation(context.Background(), msg)
	require.Error(t, err)

	require.Len(t, events.published, 1)
	assert.Equal(t, entity.StatusFailure, events.published[0].Status)
}

func TestProcessOperation_PublishFailureDoesNotChangeOutcome(t *testing.T) {
	conn := &fakeConnector{result: entity.ConnectorResult{Success: true, VendorNumber: "0000100045"}}
	factory := &fakeFactory{conn: conn}
	events := &fakeEvents{sendErr: errors.New("broker unavailable")}
	mappings := &fakeMappings{}

	msg := vendorMessage(entity.RoleVendor)
	err := newUseCase(factory, events, mappings, &fakeDedup{}).ProcessOperation(context.Background(), msg)

	assert.NoError(t, err, "status publishing is best effort")
	assert.Equal(t, "0000100045", mappings.upsertedNumber)
}
