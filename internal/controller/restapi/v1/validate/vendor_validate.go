package validate

import (
	"strings"

	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
)

const (
	MsgVendorNameRequired      = "Vendor name is required"
	MsgTaxIDRequired           = "Tax ID is required"
	MsgUserContextRequired     = "User context is required"
	MsgRoleInvalid             = "Role must be 'Approver' or 'Vendor'"
	MsgAADUserIDRequired       = "Azure AD User ID is required for approvers"
	MsgInvitationTokenRequired = "Invitation token is required for vendors"
)

// OperationRequest collects every violation at once; the gateway fails
// closed and returns them together.
func OperationRequest(req entity.VendorOperationRequest) []string {
	var violations []string

	if strings.TrimSpace(req.Vendor.Name) == "" {
		violations = append(violations, MsgVendorNameRequired)
	}

	if strings.TrimSpace(req.Vendor.TaxID) == "" {
		violations = append(violations, MsgTaxIDRequired)
	}

	uc := req.UserContext
	if uc == (entity.UserContext{}) {
		violations = append(violations, MsgUserContextRequired)

		return violations
	}

	role, err := entity.ParseRole(string(uc.Role))
	if err != nil {
		violations = append(violations, MsgRoleInvalid)

		return violations
	}

	switch role {
	case entity.RoleApprover:
		if strings.TrimSpace(uc.AADUserID) == "" {
			violations = append(violations, MsgAADUserIDRequired)
		}
	case entity.RoleVendor:
		if strings.TrimSpace(uc.InvitationToken) == "" {
			violations = append(violations, MsgInvitationTokenRequired)
		}
	}

	return violations
}
