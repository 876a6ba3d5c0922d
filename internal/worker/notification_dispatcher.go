package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"orderdesk/internal/adapter/notify"
	"orderdesk/internal/domain/model"
)

// NotificationDispatcher decouples notification delivery from the request
// path. Events are queued in-process and published by a small worker pool;
// failures are logged and swallowed, never surfaced to the operation that
// produced them.
type NotificationDispatcher struct {
	publisher notify.Publisher
	workers   int
	logger    *slog.Logger

	events chan model.Event
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationDispatcher constructs the dispatcher with a bounded queue.
func NewNotificationDispatcher(publisher notify.Publisher, workers, buffer int, logger *slog.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if buffer <= 0 {
		buffer = 1
	}
	return &NotificationDispatcher{
		publisher: publisher,
		workers:   workers,
		logger:    logger,
		events:    make(chan model.Event, buffer),
	}
}

// Start launches background delivery workers.
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop waits for in-flight deliveries to finish. Queued events that no
// worker picked up are dropped; the queue is best effort by contract.
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Enqueue hands an event to the dispatcher without ever blocking the
// request path. A full queue drops the event with a warning.
func (d *NotificationDispatcher) Enqueue(event model.Event) {
	select {
	case d.events <- event:
	default:
		d.logger.Warn("notification queue full, dropping event",
			slog.String("kind", string(event.Kind)),
			slog.Int64("order_id", event.OrderID))
	}
}

func (d *NotificationDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.deliver(ctx, event)
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, event model.Event) {
	deliverCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.publisher.Publish(deliverCtx, event); err != nil {
		d.logger.Warn("notification publish failed",
			slog.String("kind", string(event.Kind)),
			slog.Int64("order_id", event.OrderID),
			slog.String("error", err.Error()))
	}
}
