// Package worker polls the outbox and publishes pending domain events to Kafka.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"credvault/internal/events/outbox"
	"credvault/internal/events/outbox/metrics"
	"credvault/internal/platform/kafka/producer"
)

// Worker polls the outbox table and publishes events to Kafka.
// Delivery is at-least-once; the entry ID travels as the message key so
// idempotent consumers can deduplicate.
type Worker struct {
	store           outbox.Store
	producer        *producer.Producer
	topic           string
	batchSize       int
	pollInterval    time.Duration
	cleanupInterval time.Duration
	retention       time.Duration
	metrics         *metrics.Metrics
	logger          *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Worker.
type Option func(*Worker)

// WithTopic sets the Kafka topic for publishing.
func WithTopic(topic string) Option {
	return func(w *Worker) {
		w.topic = topic
	}
}

// WithBatchSize sets the maximum number of entries to fetch per poll.
func WithBatchSize(size int) Option {
	return func(w *Worker) {
		w.batchSize = size
	}
}

// WithPollInterval sets the interval between polls.
func WithPollInterval(interval time.Duration) Option {
	return func(w *Worker) {
		w.pollInterval = interval
	}
}

// WithRetention sets how long processed entries are kept before cleanup.
func WithRetention(retention time.Duration) Option {
	return func(w *Worker) {
		w.retention = retention
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

// New creates a new outbox worker.
func New(store outbox.Store, prod *producer.Producer, opts ...Option) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	w := &Worker{
		store:           store,
		producer:        prod,
		topic:           "credvault.domain.events",
		batchSize:       100,
		pollInterval:    100 * time.Millisecond,
		cleanupInterval: time.Minute,
		retention:       24 * time.Hour,
		ctx:             ctx,
		cancel:          cancel,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Start begins the polling loop in a background goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop signals the worker to drain and waits for it to finish.
func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	cleanup := time.NewTicker(w.cleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-w.ctx.Done():
			w.drain()
			return
		case <-ticker.C:
			w.poll()
		case <-cleanup.C:
			w.cleanupProcessed()
		}
	}
}

// poll fetches and processes a batch of outbox entries.
func (w *Worker) poll() {
	start := time.Now()

	entries, err := w.store.FetchUnprocessed(w.ctx, w.batchSize)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("failed to fetch outbox entries", "error", err)
		}
		if w.metrics != nil {
			w.metrics.IncPublishFailures()
		}
		return
	}

	if len(entries) == 0 {
		return
	}

	if w.metrics != nil {
		w.metrics.ObserveBatchSize(len(entries))
	}

	for _, entry := range entries {
		if err := w.publishEntry(w.ctx, entry); err != nil {
			if w.logger != nil {
				w.logger.Error("failed to publish outbox entry",
					"id", entry.ID,
					"event_type", entry.EventType,
					"error", err,
				)
			}
			if w.metrics != nil {
				w.metrics.IncPublishFailures()
			}
			// Continue with other entries; this one will be retried on next poll
			continue
		}

		if err := w.store.MarkProcessed(w.ctx, entry.ID, time.Now()); err != nil {
			if w.logger != nil {
				w.logger.Error("failed to mark entry as processed",
					"id", entry.ID,
					"error", err,
				)
			}
			// Entry was published but not marked; it will be re-published and
			// deduplicated downstream by entry ID.
			continue
		}

		if w.metrics != nil {
			w.metrics.IncPublished()
		}
	}

	if w.metrics != nil {
		w.metrics.ObservePollDuration(time.Since(start).Seconds())
		if pending, err := w.store.CountPending(w.ctx); err == nil {
			w.metrics.SetPendingDepth(pending)
		}
	}
}

// publishEntry publishes a single outbox entry to Kafka.
func (w *Worker) publishEntry(ctx context.Context, entry *outbox.Entry) error {
	start := time.Now()

	msg := &producer.Message{
		Topic: w.topic,
		Key:   []byte(entry.ID.String()), // entry ID as key for dedup downstream
		Value: entry.Payload,
		Headers: map[string]string{
			"aggregate_type": entry.AggregateType,
			"aggregate_id":   entry.AggregateID,
			"event_type":     entry.EventType,
		},
	}

	if err := w.producer.Produce(ctx, msg); err != nil {
		return err
	}

	if w.metrics != nil {
		w.metrics.ObservePublishDuration(time.Since(start).Seconds())
	}

	return nil
}

// cleanupProcessed removes processed entries older than the retention window.
func (w *Worker) cleanupProcessed() {
	deleted, err := w.store.DeleteProcessedBefore(w.ctx, time.Now().Add(-w.retention))
	if err != nil {
		if w.logger != nil {
			w.logger.Error("outbox cleanup failed", "error", err)
		}
		return
	}
	if deleted > 0 && w.metrics != nil {
		w.metrics.AddEntriesCleaned(deleted)
	}
}

// drain processes remaining entries during shutdown.
func (w *Worker) drain() {
	if w.logger != nil {
		w.logger.Info("draining outbox worker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for {
		entries, err := w.store.FetchUnprocessed(ctx, w.batchSize)
		if err != nil {
			if w.logger != nil {
				w.logger.Error("failed to fetch entries during drain", "error", err)
			}
			return
		}

		if len(entries) == 0 {
			return
		}

		for _, entry := range entries {
			if err := w.publishEntry(ctx, entry); err != nil {
				// Broker unavailable; give up and let the next run retry.
				return
			}
			if err := w.store.MarkProcessed(ctx, entry.ID, time.Now()); err != nil {
				return
			}
		}
	}
}
