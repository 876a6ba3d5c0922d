package test

import (
	"context"
	"sync"

	"orderdesk/internal/adapter/mailgate"
	"orderdesk/internal/domain/model"
)

// MailerStub records sent messages and fails on demand.
type MailerStub struct {
	mu     sync.Mutex
	SendFn func(context.Context, mailgate.Message) error
	Sent   []mailgate.Message
	Err    error
}

// Send stores the message unless an error is configured.
func (s *MailerStub) Send(ctx context.Context, msg mailgate.Message) error {
	if s.SendFn != nil {
		return s.SendFn(ctx, msg)
	}
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, msg)
	return nil
}

// SentMessages returns a snapshot of delivered messages.
func (s *MailerStub) SentMessages() []mailgate.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailgate.Message, len(s.Sent))
	copy(out, s.Sent)
	return out
}

// PublisherStub records published notification events.
type PublisherStub struct {
	mu        sync.Mutex
	PublishFn func(context.Context, model.Event) error
	Events    []model.Event
	Closed    bool
}

// Publish stores the event or delegates to the override.
func (s *PublisherStub) Publish(ctx context.Context, event model.Event) error {
	if s.PublishFn != nil {
		return s.PublishFn(ctx, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
	return nil
}

// Close marks the publisher closed.
func (s *PublisherStub) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Published returns a snapshot of the recorded events.
func (s *PublisherStub) Published() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, len(s.Events))
	copy(out, s.Events)
	return out
}
