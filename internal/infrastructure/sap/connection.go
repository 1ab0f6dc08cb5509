package sap

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/procuredesk/sap-vendor-bridge/internal/dto"
	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
)

// SystemAccountConnection presents the shared service identity, used on
// behalf of external callers.
type SystemAccountConnection struct {
	gw     *Gateway
	params dto.ConnectionParams
}

func NewSystemAccountConnection(gw *Gateway, params dto.ConnectionParams) *SystemAccountConnection {
	return &SystemAccountConnection{gw: gw, params: params}
}

func (c *SystemAccountConnection) Identity() string {
	return c.params.Username
}

func (c *SystemAccountConnection) InvokeVendorOperation(
	ctx context.Context,
	kind entity.OperationKind,
	vendor entity.VendorData,
	correlationID uuid.UUID,
) (entity.ConnectorResult, error) {
	return c.gw.Invoke(ctx, c.params, kind, vendor, correlationID, func(req *http.Request) {
		req.SetBasicAuth(c.params.Username, c.params.Password)
	})
}

// IdentityConnection presents the caller's own exchanged identity: a
// signed assertion naming the approver's Azure AD user id.
type IdentityConnection struct {
	gw        *Gateway
	params    dto.ConnectionParams
	assertion string
	subject   string
}

func NewIdentityConnection(gw *Gateway, params dto.ConnectionParams, assertion, subject string) *IdentityConnection {
	return &IdentityConnection{gw: gw, params: params, assertion: assertion, subject: subject}
}

func (c *IdentityConnection) Identity() string {
	return c.subject
}

func (c *IdentityConnection) InvokeVendorOperation(
	ctx context.Context,
	kind entity.OperationKind,
	vendor entity.VendorData,
	correlationID uuid.UUID,
) (entity.ConnectorResult, error) {
	return c.gw.Invoke(ctx, c.params, kind, vendor, correlationID, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+c.assertion)
	})
}
