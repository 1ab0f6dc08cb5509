package v1_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	v1 "github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi/v1"
	"github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi/v1/response"
	"github.com/procuredesk/sap-vendor-bridge/internal/controller/restapi/v1/validate"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngest struct {
	gotKind          entity.OperationKind
	gotCorrelationID uuid.UUID
	returnID         uuid.UUID
	returnErr        error
}

func (f *fakeIngest) EnqueueOperation(
	_ context.Context,
	_ entity.VendorOperationRequest,
	kind entity.OperationKind,
	correlationID uuid.UUID,
) (uuid.UUID, error) {
	f.gotKind = kind
	f.gotCorrelationID = correlationID

	if f.returnErr != nil {
		return uuid.Nil, f.returnErr
	}

	return f.returnID, nil
}

func newVendorApp(ingest *fakeIngest) *fiber.App {
	app := fiber.New()
	v1.NewVendorRoutes(app.Group("/v1"), ingest, logger.New("error"))

	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string, header map[string]string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, raw
}

const validBody = `{
	"vendor": {"name": "Acme GmbH", "taxId": "DE123456789"},
	"userContext": {"role": "Approver", "userId": "u-1", "aadUserId": "aad-42"}
}`

func TestCreateVendor_Accepted(t *testing.T) {
	ingest := &fakeIngest{returnID: uuid.New()}
	app := newVendorApp(ingest)

	resp, raw := postJSON(t, app, "/v1/vendor/create", validBody, nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out response.Enqueue
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, ingest.returnID.String(), out.CorrelationID)
	assert.Equal(t, "queued", out.Status)
	assert.Equal(t, entity.OperationCreate, ingest.gotKind)
	assert.Equal(t, uuid.Nil, ingest.gotCorrelationID)
}

func TestUpdateVendor_Accepted(t *testing.T) {
	ingest := &fakeIngest{returnID: uuid.New()}
	app := newVendorApp(ingest)

	resp, _ := postJSON(t, app, "/v1/vendor/update", validBody, nil)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, entity.OperationUpdate, ingest.gotKind)
}

func TestCreateVendor_ValidationErrors(t *testing.T) {
	app := newVendorApp(&fakeIngest{})

	body := `{
		"vendor": {"name": "", "taxId": ""},
		"userContext": {"role": "Approver", "userId": "u-1"}
	}`

	resp, raw := postJSON(t, app, "/v1/vendor/create", body, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out response.ValidationError
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, []string{
		validate.MsgVendorNameRequired,
		validate.MsgTaxIDRequired,
		validate.MsgAADUserIDRequired,
	}, out.Errors)
}

func TestCreateVendor_MalformedBody(t *testing.T) {
	app := newVendorApp(&fakeIngest{})

	resp, _ := postJSON(t, app, "/v1/vendor/create", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateVendor_CorrelationHeader(t *testing.T) {
	ingest := &fakeIngest{returnID: uuid.New()}
	app := newVendorApp(ingest)

	supplied := uuid.New()
	resp, _ := postJSON(t, app, "/v1/vendor/create", validBody, map[string]string{
		"X-Correlation-Id": supplied.String(),
	})

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, supplied, ingest.gotCorrelationID)
}

func TestCreateVendor_BadCorrelationHeader(t *testing.T) {
	app := newVendorApp(&fakeIngest{})

	resp, _ := postJSON(t, app, "/v1/vendor/create", validBody, map[string]string{
		"X-Correlation-Id": "not-a-uuid",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateVendor_EnqueueFailure(t *testing.T) {
	app := newVendorApp(&fakeIngest{returnErr: errors.New("broker unavailable")})

	resp, raw := postJSON(t, app, "/v1/vendor/create", validBody, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out response.Error
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "internal error", out.Error)
}
