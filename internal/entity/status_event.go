package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	StatusSuccess EventStatus = "success"
	StatusFailure EventStatus = "failure"
)

// StatusEvent is emitted exactly once per processing attempt and never
// mutated afterwards. CorrelationID joins it back to the original request.
type StatusEvent struct {
	CorrelationID uuid.UUID   `json:"correlationId"`
	Status        EventStatus `json:"status"`
	VendorNumber  string      `json:"vendorNumber,omitempty"`
	Errors        []string    `json:"errors,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	DurationMS    int64       `json:"durationMs"`
	AuthMethod    AuthMethod  `json:"authMethod"`
}
