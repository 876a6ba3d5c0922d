package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderdesk/internal/domain/model"
	testhelpers "orderdesk/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewNotificationDispatcherDefaults(t *testing.T) {
	dispatcher := NewNotificationDispatcher(&testhelpers.PublisherStub{}, 0, 0, testLogger())
	if dispatcher.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", dispatcher.workers)
	}
	if cap(dispatcher.events) != 1 {
		t.Fatalf("expected buffer default to 1, got %d", cap(dispatcher.events))
	}
}

func TestDispatcherDeliversEvents(t *testing.T) {
	publisher := &testhelpers.PublisherStub{}
	dispatcher := NewNotificationDispatcher(publisher, 2, 8, testLogger())

	dispatcher.Start(context.Background())
	dispatcher.Enqueue(model.Event{Kind: model.EventOrderSent, OrderID: 7, OrderTitle: "Spring batch"})
	dispatcher.Enqueue(model.Event{Kind: model.EventPaymentRecorded, OrderID: 7})

	deadline := time.After(500 * time.Millisecond)
	for len(publisher.Published()) < 2 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for event delivery")
		case <-time.After(10 * time.Millisecond):
		}
	}
	dispatcher.Stop()

	events := publisher.Published()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != model.EventOrderSent || events[0].OrderID != 7 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
}

func TestDispatcherSwallowsPublishErrors(t *testing.T) {
	delivered := make(chan struct{}, 2)
	publisher := &testhelpers.PublisherStub{
		PublishFn: func(context.Context, model.Event) error {
			delivered <- struct{}{}
			return errors.New("broker unavailable")
		},
	}
	dispatcher := NewNotificationDispatcher(publisher, 1, 4, testLogger())

	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	dispatcher.Enqueue(model.Event{Kind: model.EventOrderCompleted, OrderID: 1})
	dispatcher.Enqueue(model.Event{Kind: model.EventOrderCancelled, OrderID: 2})

	for i := 0; i < 2; i++ {
		select {
		case <-delivered:
		case <-time.After(500 * time.Millisecond):
			t.Fatal("timeout waiting for publish attempt")
		}
	}
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	publisher := &testhelpers.PublisherStub{}
	dispatcher := NewNotificationDispatcher(publisher, 1, 1, testLogger())

	// No workers running: the single buffer slot fills and the second
	// event must be dropped without blocking.
	done := make(chan struct{})
	go func() {
		dispatcher.Enqueue(model.Event{Kind: model.EventOrderSent, OrderID: 1})
		dispatcher.Enqueue(model.Event{Kind: model.EventOrderSent, OrderID: 2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("enqueue blocked on full queue")
	}
	if len(dispatcher.events) != 1 {
		t.Fatalf("expected 1 queued event, got %d", len(dispatcher.events))
	}
}

func TestDispatcherStopWaitsForWorkers(t *testing.T) {
	publisher := &testhelpers.PublisherStub{}
	dispatcher := NewNotificationDispatcher(publisher, 3, 4, testLogger())

	dispatcher.Start(context.Background())
	dispatcher.Stop()

	// Stop after Stop must not panic or hang.
	dispatcher.Stop()
}
