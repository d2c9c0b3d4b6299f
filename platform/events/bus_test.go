package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crm_portal_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func newBus() *InMemoryBus {
	return NewInMemoryBus(logger.New("development"))
}

func TestPublishSyncRunsAllHandlers(t *testing.T) {
	bus := newBus()

	var calls int
	bus.Subscribe("lead.test", HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return nil
	}))
	bus.Subscribe("lead.test", HandlerFunc(func(ctx context.Context, event Event) error {
		calls++
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "lead.test"})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := newBus()

	first := errors.New("first failure")
	bus.Subscribe("lead.test", HandlerFunc(func(ctx context.Context, event Event) error {
		return first
	}))
	bus.Subscribe("lead.test", HandlerFunc(func(ctx context.Context, event Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "lead.test"})
	if !errors.Is(err, first) {
		t.Fatalf("expected joined error containing handler failure, got %v", err)
	}
}

func TestPublishSyncRecoversPanics(t *testing.T) {
	bus := newBus()

	bus.Subscribe("lead.test", HandlerFunc(func(ctx context.Context, event Event) error {
		panic("boom")
	}))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "lead.test"})
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}
}

func TestPublishDispatchesAsync(t *testing.T) {
	bus := newBus()

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("lead.test", HandlerFunc(func(ctx context.Context, event Event) error {
		wg.Done()
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "lead.test"})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := newBus()

	bus.Subscribe("lead.other", HandlerFunc(func(ctx context.Context, event Event) error {
		t.Error("handler for different event should not fire")
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), name: "lead.test"}); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
}
