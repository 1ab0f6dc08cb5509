package entity

import "time"

// VendorMapping associates the portal user with the vendor number assigned
// by the remote system. Keyed by user id, written only by that user's own
// successful operations.
type VendorMapping struct {
	UserID       string    `json:"userId"`
	VendorNumber string    `json:"vendorNumber"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
