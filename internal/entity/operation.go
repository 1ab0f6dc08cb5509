package entity

import (
	"time"

	"github.com/google/uuid"
)

type OperationKind string

const (
	OperationCreate OperationKind = "CREATE"
	OperationUpdate OperationKind = "UPDATE"
)

// VendorOperationRequest is the payload accepted at ingestion.
type VendorOperationRequest struct {
	Vendor      VendorData  `json:"vendor"`
	UserContext UserContext `json:"userContext"`
}

// VendorOperationMessage is the unit placed on the queue: the request
// enriched with a correlation id that stays stable through the whole
// pipeline, a UTC timestamp and the operation kind fixed by the endpoint.
type VendorOperationMessage struct {
	CorrelationID uuid.UUID     `json:"correlationId"`
	Operation     OperationKind `json:"operation"`
	Timestamp     time.Time     `json:"timestamp"`

	Vendor      VendorData  `json:"vendor"`
	UserContext UserContext `json:"userContext"`
}

func NewVendorOperationMessage(correlationID uuid.UUID, kind OperationKind, req VendorOperationRequest) *VendorOperationMessage {
	return &VendorOperationMessage{
		CorrelationID: correlationID,
		Operation:     kind,
		Timestamp:     time.Now().UTC(),
		Vendor:        req.Vendor,
		UserContext:   req.UserContext,
	}
}
