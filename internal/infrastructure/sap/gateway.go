package sap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/dto"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/pkg/types/errs"
)

// BAPI-equivalent operations exposed by the gateway.
const (
	bapiVendorCreate = "BAPI_VENDOR_CREATE"
	bapiVendorChange = "BAPI_VENDOR_CHANGE"
)

const idempotencyKeyHeader = "X-Idempotency-Key"

// Gateway performs the remote call against the SAP-side HTTP gateway.
// Both connection strategies share it; only the authorization differs.
type Gateway struct {
	httpClient *http.Client
}

func NewGateway(timeout time.Duration) *Gateway {
	return &Gateway{
		httpClient: &http.Client{Timeout: timeout},
	}
}

type rfcRequest struct {
	Client       string            `json:"client"`
	SystemNumber string            `json:"systemNumber"`
	Vendor       entity.VendorData `json:"vendor"`
}

// rfcReturn mirrors the remote return table: type S success, W warning,
// E/A error rows.
type rfcReturn struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type rfcResponse struct {
	VendorNumber string      `json:"vendorNumber"`
	Return       []rfcReturn `json:"return"`
}

func operationName(kind entity.OperationKind) (string, error) {
	switch kind {
	case entity.OperationCreate:
		return bapiVendorCreate, nil
	case entity.OperationUpdate:
		return bapiVendorChange, nil
	default:
		return "", fmt.Errorf("sap - operationName - %q: %w", kind, errs.ErrUnknownOperation)
	}
}

// Invoke calls the named remote operation. A transport problem returns an
// error (retryable); error rows in the remote return table map to
// Success=false with the messages collected. The correlation id travels as
// the idempotency key so a redelivered message is a remote no-op.
func (g *Gateway) Invoke(
	ctx context.Context,
	params dto.ConnectionParams,
	kind entity.OperationKind,
	vendor entity.VendorData,
	correlationID uuid.UUID,
	authorize func(*http.Request),
) (entity.ConnectorResult, error) {
	op, err := operationName(kind)
	if err != nil {
		return entity.ConnectorResult{}, err
	}

	body, err := json.Marshal(rfcRequest{
		Client:       params.Client,
		SystemNumber: params.SystemNumber,
		Vendor:       vendor,
	})
	if err != nil {
		return entity.ConnectorResult{}, fmt.Errorf("Gateway - Invoke - json.Marshal: %w", err)
	}

	url := fmt.Sprintf("%s/rfc/%s", baseURL(params.Host), op)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return entity.ConnectorResult{}, fmt.Errorf("Gateway - Invoke - http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyKeyHeader, correlationID.String())
	authorize(req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return entity.ConnectorResult{}, fmt.Errorf("Gateway - Invoke - g.httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entity.ConnectorResult{}, fmt.Errorf("Gateway - Invoke - %s: unexpected status %d", op, resp.StatusCode)
	}

	var remote rfcResponse
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return entity.ConnectorResult{}, fmt.Errorf("Gateway - Invoke - json.Decode: %w", err)
	}

	var remoteErrors []string
	for _, ret := range remote.Return {
		if ret.Type == "E" || ret.Type == "A" {
			remoteErrors = append(remoteErrors, ret.Message)
		}
	}

	if len(remoteErrors) > 0 {
		return entity.ConnectorResult{Success: false, Errors: remoteErrors}, nil
	}

	if remote.VendorNumber == "" {
		return entity.ConnectorResult{}, fmt.Errorf("Gateway - Invoke - %s: success without vendor number", op)
	}

	return entity.ConnectorResult{Success: true, VendorNumber: remote.VendorNumber}, nil
}

func baseURL(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimRight(host, "/")
	}

	return "https://" + strings.TrimRight(host, "/")
}
