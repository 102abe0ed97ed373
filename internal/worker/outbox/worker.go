package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/backend-labs/storefront/internal/metrics"
	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/spf13/viper"
)

type publisher interface {
	Publish(msg outbox.OutboxMessage) error
}

// Worker relays messages from the outbox table to the broker.
type Worker struct {
	outboxRepo    ioutboxrepo.IOutboxRepository
	publisher     publisher
	pollInterval  time.Duration
	batchSize     int
	retryInterval time.Duration
	now           func() time.Time
	stopCh        chan struct{}
}

// NewWorker creates a new outbox worker configured from rabbitmq.outbox.*.
func NewWorker(outboxRepo ioutboxrepo.IOutboxRepository, publisher publisher) *Worker {
	pollIntervalSeconds := viper.GetInt("rabbitmq.outbox.poll_interval_seconds")
	if pollIntervalSeconds <= 0 {
		pollIntervalSeconds = 10
	}

	batchSize := viper.GetInt("rabbitmq.outbox.batch_size")
	if batchSize <= 0 {
		batchSize = 100
	}

	retryIntervalSeconds := viper.GetInt("rabbitmq.outbox.retry_interval_seconds")
	if retryIntervalSeconds <= 0 {
		retryIntervalSeconds = 30
	}

	return &Worker{
		outboxRepo:    outboxRepo,
		publisher:     publisher,
		pollInterval:  time.Duration(pollIntervalSeconds) * time.Second,
		batchSize:     batchSize,
		retryInterval: time.Duration(retryIntervalSeconds) * time.Second,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

// Start polls the outbox until ctx is done or Stop is called.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	slog.Info("Outbox worker started", "poll_interval", w.pollInterval, "batch_size", w.batchSize)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Outbox worker shutting down")

			return
		case <-w.stopCh:
			slog.Info("Outbox worker stopped")

			return
		case <-ticker.C:
			w.processMessages(ctx)
		}
	}
}

// Stop stops the worker.
func (w *Worker) Stop() {
	close(w.stopCh)
}

// processMessages publishes one batch of due messages.
func (w *Worker) processMessages(ctx context.Context) {
	messages, err := w.outboxRepo.GetPendingMessages(ctx, w.batchSize)
	if err != nil {
		slog.Error("Failed to get pending messages from outbox", "error", err)

		return
	}

	if len(messages) == 0 {
		return
	}

	slog.Debug("Processing outbox messages", "count", len(messages))

	for _, msg := range messages {
		if err := w.publisher.Publish(msg); err != nil {
			metrics.OutboxPublished.WithLabelValues("failed").Inc()
			w.scheduleRetry(ctx, msg, err)

			continue
		}

		metrics.OutboxPublished.WithLabelValues("published").Inc()

		if err := w.outboxRepo.Delete(ctx, msg.ID); err != nil {
			slog.Error("Failed to delete message from outbox after successful publish",
				"outbox_id", msg.ID,
				"error", err,
			)

			continue
		}

		slog.Info("Order event published", "outbox_id", msg.ID, "message_id", msg.MessageID)
	}
}

func (w *Worker) scheduleRetry(ctx context.Context, msg outbox.OutboxMessage, publishErr error) {
	retryCount := msg.RetryCount + 1
	nextRetryAt := w.now().Add(w.backoff(retryCount))

	slog.Warn("Failed to publish message from outbox, will retry",
		"outbox_id", msg.ID,
		"retry_count", retryCount,
		"next_retry", nextRetryAt,
		"error", publishErr,
	)

	if err := w.outboxRepo.UpdateRetry(ctx, msg.ID, retryCount, publishErr.Error(), nextRetryAt); err != nil {
		slog.Error("Failed to update retry information", "outbox_id", msg.ID, "error", err)
	}
}

// maxBackoff caps the delay between publish attempts.
const maxBackoff = 24 * time.Hour

// backoff is retryInterval * 2^retryCount, capped at maxBackoff.
func (w *Worker) backoff(retryCount int) time.Duration {
	d := w.retryInterval
	for i := 0; i < retryCount && d < maxBackoff; i++ {
		d *= 2
	}

	return min(d, maxBackoff)
}
