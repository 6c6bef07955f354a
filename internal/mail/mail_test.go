package mail

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeEmitter struct {
	mu     sync.Mutex
	events []*Event
	err    error
	done   chan struct{}
}

func (f *fakeEmitter) Emit(ctx context.Context, event *Event) error {
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	if f.done != nil {
		close(f.done)
	}
	return f.err
}

func TestEmitAsync_DeliversEvent(t *testing.T) {
	f := &fakeEmitter{done: make(chan struct{})}
	ev := &Event{Kind: KindVerification, Email: "a@b.com"}

	EmitAsync(f, context.Background(), ev)
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("event was not emitted")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) != 1 || f.events[0] != ev {
		t.Errorf("events = %v", f.events)
	}
}

func TestEmitAsync_NilSafe(t *testing.T) {
	// Must not panic or start work.
	EmitAsync(nil, context.Background(), &Event{})
	EmitAsync(&fakeEmitter{}, context.Background(), nil)
}

func TestEmitAsync_ErrorDoesNotPropagate(t *testing.T) {
	f := &fakeEmitter{err: errors.New("broker down"), done: make(chan struct{})}
	EmitAsync(f, context.Background(), &Event{Kind: KindWelcome, Email: "a@b.com"})
	select {
	case <-f.done:
	case <-time.After(time.Second):
		t.Fatal("event was not attempted")
	}
}

func TestNewKafkaEmitter_DisabledWithoutBrokers(t *testing.T) {
	if e := NewKafkaEmitter(nil, "mail"); e != nil {
		t.Error("no brokers should disable the emitter")
	}
	if e := NewKafkaEmitter([]string{"localhost:9092"}, ""); e != nil {
		t.Error("no topic should disable the emitter")
	}
}

func TestKafkaEmitter_NilReceiverIsNoop(t *testing.T) {
	var e *KafkaEmitter
	if err := e.Emit(context.Background(), &Event{}); err != nil {
		t.Errorf("nil emitter Emit: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("nil emitter Close: %v", err)
	}
}

func TestRender(t *testing.T) {
	subject, body, err := render(&Event{Kind: KindVerification, Name: "Ada", VerifyURL: "https://x/v?t=abc"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if subject == "" || !strings.Contains(body, "https://x/v?t=abc") || !strings.Contains(body, "Ada") {
		t.Errorf("verification render = %q / %q", subject, body)
	}

	_, body, err = render(&Event{Kind: KindWelcome})
	if err != nil {
		t.Fatalf("render welcome: %v", err)
	}
	if !strings.Contains(body, "there") {
		t.Errorf("welcome render without name should use fallback greeting: %q", body)
	}

	if _, _, err := render(&Event{Kind: "bogus"}); err == nil {
		t.Error("unknown kind should error")
	}
}
