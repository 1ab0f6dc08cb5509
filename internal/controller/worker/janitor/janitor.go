package janitor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/procuredesk/sap-vendor-bridge/internal/repo"
	"github.com/procuredesk/sap-vendor-bridge/pkg/logger"
)

// Janitor runs the periodic cleanup tasks: expired dedup claims leave the
// window, and webhook statuses past retention are dropped.
type Janitor struct {
	dedup    repo.DedupKeyRepo
	webhooks repo.WebhookStatusRepo
	logger   logger.Interface

	dedupWindow      time.Duration
	dedupInterval    time.Duration
	webhookRetention time.Duration
	webhookInterval  time.Duration
	taskTimeout      time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(
	dedup repo.DedupKeyRepo,
	webhooks repo.WebhookStatusRepo,
	l logger.Interface,
	dedupWindow time.Duration,
	dedupInterval time.Duration,
	webhookRetention time.Duration,
	webhookInterval time.Duration,
) *Janitor {
	return &Janitor{
		dedup:            dedup,
		webhooks:         webhooks,
		logger:           l,
		dedupWindow:      dedupWindow,
		dedupInterval:    dedupInterval,
		webhookRetention: webhookRetention,
		webhookInterval:  webhookInterval,
		taskTimeout:      30 * time.Second,
	}
}

func (j *Janitor) Start(ctx context.Context) error {
	if !j.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Janitor - Start - worker already started")
	}

	j.ctx, j.cancel = context.WithCancel(ctx)

	// 1. dedup window purge
	j.worker(j.dedupInterval, func() {
		taskCtx, taskCancel := context.WithTimeout(j.ctx, j.taskTimeout)
		defer taskCancel()

		count, err := j.dedup.PurgeExpired(taskCtx, j.dedupWindow)
		if err != nil {
			j.logger.Error(err, "Janitor - Start - worker - j.dedup.PurgeExpired")

			return
		}

		if count > 0 {
			j.logger.Info("purged expired dedup keys, count = %d", count)
		}
	})

	// 2. webhook retention purge
	j.worker(j.webhookInterval, func() {
		taskCtx, taskCancel := context.WithTimeout(j.ctx, j.taskTimeout)
		defer taskCancel()

		count, err := j.webhooks.PurgeExpired(taskCtx, j.webhookRetention)
		if err != nil {
			j.logger.Error(err, "Janitor - Start - worker - j.webhooks.PurgeExpired")

			return
		}

		if count > 0 {
			j.logger.Info("purged old webhook statuses, count = %d", count)
		}
	})

	return nil
}

func (j *Janitor) worker(interval time.Duration, task func()) {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-j.ctx.Done():
				return
			case <-ticker.C:
				task()
			}
		}
	}()
}

func (j *Janitor) Shutdown(ctx context.Context) error {
	if !j.started.Load() {
		return nil
	}

	if j.cancel != nil {
		j.cancel()
	}

	done := make(chan struct{})

	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
