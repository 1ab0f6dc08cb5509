package entity

import (
	"fmt"

	"github.com/procuredesk/sap-vendor-bridge/pkg/types/errs"
)

type Role string

const (
	RoleApprover Role = "Approver"
	RoleVendor   Role = "Vendor"
)

// ParseRole rejects unknown role values at the boundary.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleApprover:
		return RoleApprover, nil
	case RoleVendor:
		return RoleVendor, nil
	default:
		return "", fmt.Errorf("ParseRole - %q: %w", s, errs.ErrUnknownRole)
	}
}

// UserContext identifies who initiated a vendor operation. The role decides
// which identity field is mandatory: approvers carry their Azure AD user id,
// invited vendors carry the invitation token they registered with.
type UserContext struct {
	Role            Role   `json:"role"`
	UserID          string `json:"userId"`
	AADUserID       string `json:"aadUserId,omitempty"`
	InvitationToken string `json:"invitationToken,omitempty"`
	Email           string `json:"email,omitempty"`
}

type AuthMethod string

const (
	AuthIdentityPropagation AuthMethod = "IdentityPropagation"
	AuthSystemAccount       AuthMethod = "SystemAccount"
)

// SelectAuthMethod picks the authentication strategy for the remote system.
// Approvers with a known Azure AD identity connect as themselves, everyone
// else goes through the shared system account. Pure, no other inputs.
func SelectAuthMethod(uc UserContext) AuthMethod {
	if uc.Role == RoleApprover && uc.AADUserID != "" {
		return AuthIdentityPropagation
	}

	return AuthSystemAccount
}
