package entity

import (
	"time"

	"github.com/google/uuid"
)

// StatusWebhookPayload is pushed by the remote system over the fallback
// HTTP channel. It is recorded as received and not reconciled against the
// status event stream.
type StatusWebhookPayload struct {
	CorrelationID string         `json:"correlationId"`
	Status        string         `json:"status"`
	VendorNumber  *string        `json:"vendorNumber"`
	Message       string         `json:"message,omitempty"`
	Errors        []WebhookError `json:"errors,omitempty"`
	Timestamp     *time.Time     `json:"timestamp,omitempty"`
}

type WebhookError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// WebhookStatus is the persisted form of a received webhook payload.
type WebhookStatus struct {
	ID            uuid.UUID  `json:"id"`
	CorrelationID string     `json:"correlationId"`
	Status        string     `json:"status"`
	VendorNumber  *string    `json:"vendorNumber,omitempty"`
	Message       *string    `json:"message,omitempty"`
	Errors        []byte     `json:"errors,omitempty"` // raw JSON error list as received
	ReceivedAt    time.Time  `json:"receivedAt"`
	RemoteTime    *time.Time `json:"remoteTime,omitempty"`
}
