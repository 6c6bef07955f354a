// Package mail publishes outbound-mail events. The server never talks to the
// mail provider directly; it enqueues events on Kafka and the mail worker
// delivers them. Mail is best effort: a signup must not fail because the
// broker is down.
package mail

import (
	"context"
	"log"
	"time"
)

// Event kinds understood by the mail worker.
const (
	KindVerification = "verification"
	KindWelcome      = "welcome"
)

// Event is one piece of outbound mail.
type Event struct {
	Kind      string    `json:"kind"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	VerifyURL string    `json:"verify_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Emitter publishes mail events to the delivery pipeline.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// EmitAsync runs Emit in a goroutine with a short timeout so the caller is not blocked.
// Use from request handlers for fire-and-forget, best-effort mail; errors are logged.
//
// emitter and event may be nil; EmitAsync returns immediately without starting a goroutine.
// The goroutine uses context.Background() with emitTimeout so request cancellation does not abort in-flight emit.
func EmitAsync(emitter Emitter, ctx context.Context, event *Event) {
	if emitter == nil || event == nil {
		return
	}
	go func() {
		emitCtx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			log.Printf("mail: async emit failed: %v", err)
		}
	}()
}
