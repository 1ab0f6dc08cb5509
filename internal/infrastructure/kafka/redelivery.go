package kafka

import (
	"context"
	"fmt"
	"strconv"

	"github.com/procuredesk/sap-vendor-bridge/pkg/kafka/producer"
	"github.com/segmentio/kafka-go"
)

const (
	DeliveryCountHeader    = "deliveryCount"
	deadLetterReasonHeader = "deadLetterReason"
	sourceTopicHeader      = "sourceTopic"
)

// DeliveryCount reads the delivery counter from the message headers.
// A message produced by the gateway carries no counter: first delivery.
func DeliveryCount(msg kafka.Message) int {
	for _, h := range msg.Headers {
		if h.Key == DeliveryCountHeader {
			if n, err := strconv.Atoi(string(h.Value)); err == nil {
				return n
			}
		}
	}

	return 1
}

// RedeliverySender implements retry-by-requeue: a retryable failure goes
// back to its own topic with an incremented counter, an exhausted or
// malformed message is parked on the dead-letter topic.
type RedeliverySender struct {
	*producer.Producer
	deadLetterTopic string
}

func NewRedeliverySender(p *producer.Producer, deadLetterTopic string) *RedeliverySender {
	return &RedeliverySender{p, deadLetterTopic}
}

func (rs *RedeliverySender) Requeue(ctx context.Context, msg kafka.Message, deliveryCount int) error {
	out := kafka.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: replaceHeader(msg.Headers, DeliveryCountHeader, strconv.Itoa(deliveryCount)),
	}

	err := rs.Writer.WriteMessages(ctx, out)
	if err != nil {
		return fmt.Errorf("RedeliverySender - Requeue - rs.Writer.WriteMessages: %w", err)
	}

	return nil
}

func (rs *RedeliverySender) DeadLetter(ctx context.Context, msg kafka.Message, reason string) error {
	headers := replaceHeader(msg.Headers, deadLetterReasonHeader, reason)
	headers = replaceHeader(headers, sourceTopicHeader, msg.Topic)

	out := kafka.Message{
		Topic:   rs.deadLetterTopic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: headers,
	}

	err := rs.Writer.WriteMessages(ctx, out)
	if err != nil {
		return fmt.Errorf("RedeliverySender - DeadLetter - rs.Writer.WriteMessages: %w", err)
	}

	return nil
}

func replaceHeader(headers []kafka.Header, key, value string) []kafka.Header {
	out := make([]kafka.Header, 0, len(headers)+1)

	for _, h := range headers {
		if h.Key != key {
			out = append(out, h)
		}
	}

	return append(out, kafka.Header{Key: key, Value: []byte(value)})
}
