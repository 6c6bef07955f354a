// Package sweeper removes dead sessions on a timer. A session whose refresh
// token has expired can never be used again, so its row is garbage; sweeping
// keeps the sessions table from growing without bound. Sweeping is purely an
// optimization: expiry is enforced at read time, never by the sweeper.
package sweeper

import (
	"context"
	"log"
	"time"
)

// Store is the slice of session persistence the sweeper needs.
type Store interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper deletes sessions whose refresh token expiry has passed.
type Sweeper struct {
	store    Store
	interval time.Duration
	now      func() time.Time
}

// New returns a Sweeper running every interval (minimum 1 minute).
func New(store Store, interval time.Duration) *Sweeper {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Sweeper{store: store, interval: interval, now: time.Now}
}

// SweepOnce performs a single sweep. Idempotent: zero deletions is success.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, s.now().UTC())
}

// Run sweeps on a ticker until ctx is cancelled. Errors are logged and the
// loop continues; a failed sweep retries on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil {
				log.Printf("session sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("session sweep removed %d dead sessions", n)
			}
		}
	}
}
