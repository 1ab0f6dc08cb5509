package sap_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/dto"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure/sap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path           string
	idempotencyKey string
	authorization  string
	basicUser      string
	basicPass      string
	hasBasicAuth   bool
}

func gatewayServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.idempotencyKey = r.Header.Get("X-Idempotency-Key")
		captured.authorization = r.Header.Get("Authorization")
		captured.basicUser, captured.basicPass, captured.hasBasicAuth = r.BasicAuth()

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func params(host string) dto.ConnectionParams {
	return dto.ConnectionParams{
		Host:         host,
		SystemNumber: "00",
		Client:       "100",
		Username:     "SVC_VENDOR",
		Password:     "s3cret",
	}
}

var vendor = entity.VendorData{Name: "Acme GmbH", TaxID: "DE123456789"}

func TestSystemAccountConnection_CreateSuccess(t *testing.T) {
	var captured capturedRequest
	srv := gatewayServer(t, http.StatusOK, `{"vendorNumber": "0000100042", "return": [{"type": "S", "message": "created"}]}`, &captured)
	defer srv.Close()

	conn := sap.NewSystemAccountConnection(sap.NewGateway(5*time.Second), params(srv.URL))
	correlationID := uuid.New()

	result, err := conn.InvokeVendorOperation(context.Background(), entity.OperationCreate, vendor, correlationID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "0000100042", result.VendorNumber)

	assert.Equal(t, "/rfc/BAPI_VENDOR_CREATE", captured.path)
	assert.Equal(t, correlationID.String(), captured.idempotencyKey)
	require.True(t, captured.hasBasicAuth)
	assert.Equal(t, "SVC_VENDOR", captured.basicUser)
	assert.Equal(t, "s3cret", captured.basicPass)
}

func TestSystemAccountConnection_UpdateRoutesToChange(t *testing.T) {
	var captured capturedRequest
	srv := gatewayServer(t, http.StatusOK, `{"vendorNumber": "0000100042", "return": []}`, &captured)
	defer srv.Close()

	conn := sap.NewSystemAccountConnection(sap.NewGateway(5*time.Second), params(srv.URL))

	_, err := conn.InvokeVendorOperation(context.Background(), entity.OperationUpdate, vendor, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, "/rfc/BAPI_VENDOR_CHANGE", captured.path)
}

func TestGateway_ErrorRowsMapToRejection(t *testing.T) {
	var captured capturedRequest
	body := `{"vendorNumber": "", "return": [
		{"type": "W", "message": "bank key unverified"},
		{"type": "E", "message": "Tax ID format invalid"},
		{"type": "A", "message": "processing aborted"}
	]}`
	srv := gatewayServer(t, http.StatusOK, body, &captured)
	defer srv.Close()

	conn := sap.NewSystemAccountConnection(sap.NewGateway(5*time.Second), params(srv.URL))

	result, err := conn.InvokeVendorOperation(context.Background(), entity.OperationCreate, vendor, uuid.New())
	require.NoError(t, err, "a remote rejection is not a transport failure")

	assert.False(t, result.Success)
	assert.Equal(t, []string{"Tax ID format invalid", "processing aborted"}, result.Errors)
}

func TestGateway_UnexpectedStatusIsError(t *testing.T) {
	var captured capturedRequest
	srv := gatewayServer(t, http.StatusBadGateway, ``, &captured)
	defer srv.Close()

	conn := sap.NewSystemAccountConnection(sap.NewGateway(5*time.Second), params(srv.URL))

	_, err := conn.InvokeVendorOperation(context.Background(), entity.OperationCreate, vendor, uuid.New())
	assert.Error(t, err)
}

func TestGateway_SuccessWithoutVendorNumberIsError(t *testing.T) {
	var captured capturedRequest
	srv := gatewayServer(t, http.StatusOK, `{"vendorNumber": "", "return": []}`, &captured)
	defer srv.Close()

	conn := sap.NewSystemAccountConnection(sap.NewGateway(5*time.Second), params(srv.URL))

	_, err := conn.InvokeVendorOperation(context.Background(), entity.OperationCreate, vendor, uuid.New())
	assert.Error(t, err)
}

type staticResolver struct {
	params dto.ConnectionParams
}

func (r staticResolver) Resolve(context.Context) dto.ConnectionParams { return r.params }

func TestConnectionFactory_IdentityPropagation(t *testing.T) {
	var captured capturedRequest
	srv := gatewayServer(t, http.StatusOK, `{"vendorNumber": "0000100042", "return": []}`, &captured)
	defer srv.Close()

	factory := sap.NewConnectionFactory(
		sap.NewGateway(5*time.Second),
		staticResolver{params: params(srv.URL)},
		"test-signing-key",
		"vendor-bridge",
		time.Minute,
	)

	user := entity.UserContext{Role: entity.RoleApprover, UserID: "u-1", AADUserID: "aad-42"}

	conn, err := factory.ConnectionFor(context.Background(), user, entity.AuthIdentityPropagation)
	require.NoError(t, err)
	assert.Equal(t, "aad-42", conn.Identity())

	_, err = conn.InvokeVendorOperation(context.Background(), entity.OperationCreate, vendor, uuid.New())
	require.NoError(t, err)

	assert.Contains(t, captured.authorization, "Bearer ")

	claims := decodeAssertion(t, captured.authorization)
	assert.Equal(t, "aad-42", claims["sub"])
	assert.Equal(t, "vendor-bridge", claims["iss"])
}

func TestConnectionFactory_SystemAccount(t *testing.T) {
	factory := sap.NewConnectionFactory(
		sap.NewGateway(5*time.Second),
		staticResolver{params: params("sap.example.com")},
		"test-signing-key",
		"vendor-bridge",
		time.Minute,
	)

	user := entity.UserContext{Role: entity.RoleVendor, UserID: "u-2", InvitationToken: "tok"}

	conn, err := factory.ConnectionFor(context.Background(), user, entity.AuthSystemAccount)
	require.NoError(t, err)
	assert.Equal(t, "SVC_VENDOR", conn.Identity())
}

// decodeAssertion extracts the claims from a Bearer JWT without verifying
// the signature; the factory signs, the test only inspects.
func decodeAssertion(t *testing.T, authorization string) map[string]any {
	t.Helper()

	token := strings.TrimPrefix(authorization, "Bearer ")
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claims map[string]any
	require.NoError(t, json.Unmarshal(payload, &claims))

	return claims
}
