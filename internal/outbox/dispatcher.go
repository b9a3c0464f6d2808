// Package outbox buffers signup events in process and delivers them to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/mergington/internal/events"
)

var (
	// ErrQueueFull is returned by Publish when the buffer cannot take another event.
	ErrQueueFull = errors.New("outbox queue full")
	// ErrStopped is returned by Publish once the delivery loop has begun its final flush.
	ErrStopped = errors.New("outbox stopped")
)

const flushTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Config tunes the dispatcher.
type Config struct {
	Topic        string
	PollInterval time.Duration
	BatchSize    int
	BufferSize   int
}

// Dispatcher queues signup events and drains them to Kafka in batches.
type Dispatcher struct {
	producer         messageWriter
	cfg              Config
	logger           *slog.Logger
	queue            chan events.ParticipantSignedUp
	shutdownComplete chan struct{}

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(producer messageWriter, cfg Config, logger *slog.Logger) *Dispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 25
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		producer:         producer,
		cfg:              cfg,
		logger:           logger,
		queue:            make(chan events.ParticipantSignedUp, cfg.BufferSize),
		shutdownComplete: make(chan struct{}),
	}
}

// Publish enqueues an event without blocking.
func (d *Dispatcher) Publish(ctx context.Context, event events.ParticipantSignedUp) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		droppedCounter.Inc()
		return ErrStopped
	}
	select {
	case d.queue <- event:
		queueDepth.Set(float64(len(d.queue)))
		return nil
	default:
		droppedCounter.Inc()
		return ErrQueueFull
	}
}

// Start launches the delivery loop. It should be called in a goroutine.
// On cancellation it flushes whatever is still queued before returning.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		select {
		case <-ctx.Done():
			// Nothing may enter the queue after the final drain.
			d.mu.Lock()
			d.stopped = true
			d.mu.Unlock()

			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			d.drain(flushCtx)
			cancel()
			return
		case <-ticker.C:
			d.drain(ctx)
		}
	}
}

// Wait waits until dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		batch := d.nextBatch()
		if len(batch) == 0 {
			return
		}
		if err := d.deliver(ctx, batch); err != nil {
			failedCounter.Add(float64(len(batch)))
			d.logger.Error("outbox delivery failed",
				"topic", d.cfg.Topic,
				"events", len(batch),
				"error", err,
			)
			return
		}
		deliveredCounter.Add(float64(len(batch)))
	}
}

func (d *Dispatcher) nextBatch() []events.ParticipantSignedUp {
	batch := make([]events.ParticipantSignedUp, 0, d.cfg.BatchSize)
	for len(batch) < d.cfg.BatchSize {
		select {
		case event := <-d.queue:
			batch = append(batch, event)
		default:
			queueDepth.Set(float64(len(d.queue)))
			return batch
		}
	}
	queueDepth.Set(float64(len(d.queue)))
	return batch
}

func (d *Dispatcher) deliver(ctx context.Context, batch []events.ParticipantSignedUp) error {
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	msgs := make([]kafka.Message, 0, len(batch))
	for _, event := range batch {
		msg, err := encode(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return d.producer.WriteMessages(ctx, d.cfg.Topic, msgs...)
}

func encode(event events.ParticipantSignedUp) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode event %s: %w", event.EventID, err)
	}
	return kafka.Message{
		Key:   []byte(event.Activity),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(events.EventTypeParticipantSignedUp)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}, nil
}
