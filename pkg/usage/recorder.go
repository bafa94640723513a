package usage

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Storage persists usage events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// Recorder accepts usage events without ever blocking or failing the caller.
// Events are handed to a background worker through a bounded buffer; when the
// buffer is full the event is dropped and counted rather than queued, because
// telemetry must never add latency to the enforcement path.
type Recorder struct {
	storage Storage
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	log     *slog.Logger

	closed  atomic.Bool
	dropped atomic.Int64
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderOptions)

type recorderOptions struct {
	bufferSize     int
	storageTimeout time.Duration
	logger         *slog.Logger
}

// WithBufferSize sets the in-memory event buffer size.
func WithBufferSize(n int) RecorderOption {
	return func(o *recorderOptions) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithStorageTimeout bounds each sink write.
func WithStorageTimeout(d time.Duration) RecorderOption {
	return func(o *recorderOptions) {
		if d > 0 {
			o.storageTimeout = d
		}
	}
}

// WithLogger sets the logger for sink failures and drops.
func WithLogger(log *slog.Logger) RecorderOption {
	return func(o *recorderOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

// NewRecorder starts a recorder writing to the given storage. Panics if
// storage is nil. Call Close during shutdown to drain the buffer.
func NewRecorder(storage Storage, opts ...RecorderOption) *Recorder {
	if storage == nil {
		panic("usage: storage cannot be nil")
	}

	options := &recorderOptions{
		bufferSize:     1000,
		storageTimeout: 5 * time.Second,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	r := &Recorder{
		storage: storage,
		events:  make(chan Event, options.bufferSize),
		done:    make(chan struct{}),
		log:     options.logger,
	}

	r.wg.Add(1)
	go r.worker(options.storageTimeout)
	return r
}

// Record queues an event for persistence. Never blocks: a full buffer or a
// closed recorder drops the event. Invalid events are dropped too, with a log
// line, since the caller's decision has already been made.
func (r *Recorder) Record(ctx context.Context, event Event) {
	if err := event.Validate(); err != nil {
		r.log.WarnContext(ctx, "dropping invalid usage event", "error", err)
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	if r.closed.Load() {
		r.dropped.Add(1)
		return
	}

	select {
	case r.events <- event:
	default:
		r.dropped.Add(1)
		r.log.WarnContext(ctx, "usage event buffer full, dropping event",
			"tenant_id", event.TenantID, "metric", event.Metric)
	}
}

// Dropped returns the number of events discarded since start.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

func (r *Recorder) worker(storageTimeout time.Duration) {
	defer r.wg.Done()

	store := func(event Event) {
		// Isolated from request contexts so client timeouts cannot cascade.
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := r.storage.Store(ctx, event); err != nil {
			// Sink failures are logged and swallowed: telemetry is best-effort.
			r.log.Warn("failed to store usage event",
				"tenant_id", event.TenantID, "metric", event.Metric, "error", err)
		}
	}

	for {
		select {
		case event := <-r.events:
			store(event)
		case <-r.done:
			for {
				select {
				case event := <-r.events:
					store(event)
				default:
					return
				}
			}
		}
	}
}

// Close drains buffered events and stops the worker. The context bounds the
// wait; events still buffered after it expires are lost.
func (r *Recorder) Close(ctx context.Context) error {
	if r.closed.Swap(true) {
		return ErrRecorderClosed
	}
	close(r.done)

	finished := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
