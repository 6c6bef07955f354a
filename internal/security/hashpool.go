package security

import (
	"context"
	"errors"
)

// ErrPoolClosed is returned when work is submitted after Close.
var ErrPoolClosed = errors.New("hash pool closed")

type hashJob struct {
	run  func() hashResult
	done chan hashResult
}

type hashResult struct {
	hash string
	err  error
}

// HashPool runs bcrypt work on a fixed set of worker goroutines so that
// deliberately slow hashing cannot starve concurrent session lookups sharing
// the process. Hash and Compare block the caller until the work completes or
// ctx is done; the workers themselves are never cancelled mid-bcrypt.
type HashPool struct {
	hasher *Hasher
	jobs   chan hashJob
	closed chan struct{}
}

// NewHashPool starts workers goroutines (minimum 1) serving bcrypt requests.
// Call Close to stop them.
func NewHashPool(hasher *Hasher, workers int) *HashPool {
	if workers < 1 {
		workers = 1
	}
	p := &HashPool{
		hasher: hasher,
		jobs:   make(chan hashJob),
		closed: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *HashPool) worker() {
	for {
		select {
		case job := <-p.jobs:
			job.done <- job.run()
		case <-p.closed:
			return
		}
	}
}

// Close stops the workers. In-flight jobs finish; queued submissions fail.
func (p *HashPool) Close() {
	close(p.closed)
}

func (p *HashPool) submit(ctx context.Context, run func() hashResult) (string, error) {
	job := hashJob{run: run, done: make(chan hashResult, 1)}
	select {
	case p.jobs <- job:
	case <-p.closed:
		return "", ErrPoolClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case res := <-job.done:
		return res.hash, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Hash hashes password on a pool worker.
func (p *HashPool) Hash(ctx context.Context, password []byte) (string, error) {
	return p.submit(ctx, func() hashResult {
		h, err := p.hasher.Hash(password)
		return hashResult{hash: h, err: err}
	})
}

// Compare verifies password against hash on a pool worker. Returns nil on
// match, bcrypt's mismatch error otherwise.
func (p *HashPool) Compare(ctx context.Context, hash string, password []byte) error {
	_, err := p.submit(ctx, func() hashResult {
		return hashResult{err: p.hasher.Compare(hash, password)}
	})
	return err
}
