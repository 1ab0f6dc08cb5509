package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase/webhook"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatuses struct {
	created   *entity.WebhookStatus
	createErr error
}

func (f *fakeStatuses) Create(_ context.Context, status *entity.WebhookStatus) error {
	f.created = status

	return f.createErr
}

func (f *fakeStatuses) PurgeExpired(context.Context, time.Duration) (int64, error) { return 0, nil }

func TestRecordStatus(t *testing.T) {
	statuses := &fakeStatuses{}
	uc := webhook.New(statuses, logger.New("error"))

	vendorNumber := "0000100042"
	remote := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	err := uc.RecordStatus(context.Background(), entity.StatusWebhookPayload{
		CorrelationID: "corr-1",
		Status:        "failure",
		VendorNumber:  &vendorNumber,
		Message:       "rejected",
		Errors: []entity.WebhookError{
			{Code: "F2", Message: "Vendor already exists"},
		},
		Timestamp: &remote,
	})
	require.NoError(t, err)

	row := statuses.created
	require.NotNil(t, row)
	assert.Equal(t, "corr-1", row.CorrelationID)
	assert.Equal(t, "failure", row.Status)
	assert.Equal(t, &vendorNumber, row.VendorNumber)
	require.NotNil(t, row.Message)
	assert.Equal(t, "rejected", *row.Message)
	assert.Equal(t, &remote, row.RemoteTime)
	assert.NotEqual(t, row.ReceivedAt, time.Time{})

	var recorded []entity.WebhookError
	require.NoError(t, json.Unmarshal(row.Errors, &recorded))
	assert.Equal(t, "Vendor already exists", recorded[0].Message)
}

func TestRecordStatus_MinimalPayload(t *testing.T) {
	statuses := &fakeStatuses{}
	uc := webhook.New(statuses, logger.New("error"))

	err := uc.RecordStatus(context.Background(), entity.StatusWebhookPayload{
		CorrelationID: "corr-2",
		Status:        "success",
	})
	require.NoError(t, err)

	row := statuses.created
	require.NotNil(t, row)
	assert.Nil(t, row.Message)
	assert.Nil(t, row.Errors)
}

func TestRecordStatus_StoreFailure(t *testing.T) {
	statuses := &fakeStatuses{createErr: errors.New("db down")}
	uc := webhook.New(statuses, logger.New("error"))

	err := uc.RecordStatus(context.Background(), entity.StatusWebhookPayload{
		CorrelationID: "corr-3",
		Status:        "success",
	})
	assert.Error(t, err)
}
