package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/procuredesk/sap-vendor-bridge/internal/entity"
	"github.com/procuredesk/sap-vendor-bridge/internal/infrastructure"
	infrakafka "github.com/procuredesk/sap-vendor-bridge/internal/infrastructure/kafka"
	"github.com/procuredesk/sap-vendor-bridge/internal/usecase"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const _requeueAttempts = 3

// EventsSource feeds operation messages to the controller and owns the
// offset commits.
type EventsSource interface {
	ReadEvent(ctx context.Context) (kafka.Message, error)
	CommitEvent(ctx context.Context, event kafka.Message) error
	Close() error
}

// KafkaController is the queue-adapter side of the pipeline: it feeds
// operation messages to the worker use case and maps a retryable failure
// to redelivery (requeue with an incremented delivery count, dead-letter
// once the maximum is exhausted). The use case itself stays retry-free.
type KafkaController struct {
	ops    usecase.VendorOpsUseCase
	ec     EventsSource
	rq     infrastructure.RedeliverySender
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration
	requeueTimeout time.Duration
	maxDeliveries  int

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	ops usecase.VendorOpsUseCase,
	ec EventsSource,
	rq infrastructure.RedeliverySender,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	requeueTimeout time.Duration,
	maxDeliveries int,
	workers int,
) *KafkaController {
	return &KafkaController{
		ops:            ops,
		ec:             ec,
		rq:             rq,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		requeueTimeout: requeueTimeout,
		maxDeliveries:  maxDeliveries,
		workers:        workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				event, err := c.ec.ReadEvent(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "KafkaController - Start - c.ec.ReadEvent")
					}
					continue
				}

				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			c.handleMessage(event)
		}()
	}
}

func (c *KafkaController) handleMessage(event kafka.Message) {
	var msg entity.VendorOperationMessage
	if err := json.Unmarshal(event.Value, &msg); err != nil {
		// a malformed message can never succeed, park it immediately
		c.logger.Error(err, "KafkaController - handleMessage - json.Unmarshal")
		c.park(event, "malformed payload")

		return
	}

	processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
	err := c.ops.ProcessOperation(processCtx, msg)
	processCancel()

	if err == nil {
		c.commit(event)

		return
	}

	c.logger.Error(err, "KafkaController - handleMessage - c.ops.ProcessOperation")

	deliveryCount := infrakafka.DeliveryCount(event)
	if deliveryCount >= c.maxDeliveries {
		c.park(event, fmt.Sprintf("max deliveries (%d) exhausted", c.maxDeliveries))

		return
	}

	var requeueErr error
	for attempt := 0; attempt < _requeueAttempts; attempt++ {
		requeueCtx, requeueCancel := context.WithTimeout(c.ctx, c.requeueTimeout)
		requeueErr = c.rq.Requeue(requeueCtx, event, deliveryCount+1)
		requeueCancel()

		if requeueErr == nil {
			c.commit(event)

			return
		}
	}

	c.logger.Error(requeueErr, "KafkaController - handleMessage - c.rq.Requeue")

	// An uncommitted offset is not a safe fallback with concurrent
	// workers: a later commit on the same partition would skip past the
	// failed message. Park it instead so it survives on the DLQ.
	c.park(event, "requeue failed")
}

// park sends the message to the dead-letter topic and commits it.
func (c *KafkaController) park(event kafka.Message, reason string) {
	dlqCtx, dlqCancel := context.WithTimeout(c.ctx, c.requeueTimeout)
	err := c.rq.DeadLetter(dlqCtx, event, reason)
	dlqCancel()
	if err != nil {
		c.logger.Error(err, "KafkaController - park - c.rq.DeadLetter")

		return
	}

	c.commit(event)
}

func (c *KafkaController) commit(event kafka.Message) {
	commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
	defer commitCancel()

	if err := c.ec.CommitEvent(commitCtx, event); err != nil {
		c.logger.Error(err, "KafkaController - commit - c.ec.CommitEvent")
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.ec.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
