package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/pkg/kafka/producer"
	"github.com/procuredesk/sap-vendor-bridge/pkg/types/errs"
	"github.com/segmentio/kafka-go"
)

const (
	// DeduplicationIDHeader mirrors the message key so downstream
	// substrates with native dedup can pick it up as a property.
	DeduplicationIDHeader = "DeduplicationId"

	CorrelationIDHeader = "CorrelationId"
	StatusHeader        = "Status"
)

// OperationProducer places vendor operation messages on the
// operation-kind-specific topic. Message key = correlation id.
type OperationProducer struct {
	*producer.Producer
	topics map[entity.OperationKind]string
}

func NewOperationProducer(p *producer.Producer, createTopic, updateTopic string) *OperationProducer {
	return &OperationProducer{
		Producer: p,
		topics: map[entity.OperationKind]string{
			entity.OperationCreate: createTopic,
			entity.OperationUpdate: updateTopic,
		},
	}
}

func (op *OperationProducer) SendOperation(ctx context.Context, msg *entity.VendorOperationMessage) error {
	topic, ok := op.topics[msg.Operation]
	if !ok {
		return fmt.Errorf("OperationProducer - SendOperation - %q: %w", msg.Operation, errs.ErrUnknownOperation)
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("OperationProducer - SendOperation - json.Marshal: %w", err)
	}

	kmsg := kafka.Message{
		Topic: topic,
		Key:   []byte(msg.CorrelationID.String()),
		Value: b,
		Headers: []kafka.Header{
			{Key: DeduplicationIDHeader, Value: []byte(msg.CorrelationID.String())},
		},
	}

	err = op.Writer.WriteMessages(ctx, kmsg)
	if err != nil {
		return fmt.Errorf("OperationProducer - SendOperation - op.Writer.WriteMessages: %w", err)
	}

	return nil
}

// StatusEventProducer emits status events to the event stream topic with
// CorrelationId and Status exposed as headers for downstream filtering.
type StatusEventProducer struct {
	*producer.Producer
	topic string
}

func NewStatusEventProducer(p *producer.Producer, topic string) *StatusEventProducer {
	return &StatusEventProducer{p, topic}
}

func (ep *StatusEventProducer) SendStatusEvent(ctx context.Context, event *entity.StatusEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("StatusEventProducer - SendStatusEvent - json.Marshal: %w", err)
	}

	kmsg := kafka.Message{
		Topic: ep.topic,
		Key:   []byte(event.CorrelationID.String()),
		Value: b,
		Headers: []kafka.Header{
			{Key: CorrelationIDHeader, Value: []byte(event.CorrelationID.String())},
			{Key: StatusHeader, Value: []byte(event.Status)},
		},
	}

	err = ep.Writer.WriteMessages(ctx, kmsg)
	if err != nil {
		return fmt.Errorf("StatusEventProducer - SendStatusEvent - ep.Writer.WriteMessages: %w", err)
	}

	return nil
}
