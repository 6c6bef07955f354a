package security

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPool_RoundTrip(t *testing.T) {
	p := NewHashPool(NewHasher(bcrypt.MinCost), 2)
	defer p.Close()
	ctx := context.Background()

	hash, err := p.Hash(ctx, []byte("Str0ng!Passw0rd"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := p.Compare(ctx, hash, []byte("Str0ng!Passw0rd")); err != nil {
		t.Errorf("Compare: %v", err)
	}
	if err := p.Compare(ctx, hash, []byte("wrong")); err == nil {
		t.Error("Compare with wrong password should fail")
	}
}

func TestHashPool_ConcurrentCallers(t *testing.T) {
	p := NewHashPool(NewHasher(bcrypt.MinCost), 2)
	defer p.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hash, err := p.Hash(ctx, []byte("Str0ng!Passw0rd"))
			if err != nil {
				errs <- err
				return
			}
			errs <- p.Compare(ctx, hash, []byte("Str0ng!Passw0rd"))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("pool op: %v", err)
		}
	}
}

func TestHashPool_ContextCancelled(t *testing.T) {
	p := NewHashPool(NewHasher(12), 1)
	defer p.Close()

	// Occupy the only worker so the cancelled submission cannot be picked up.
	busy := make(chan struct{})
	go func() {
		defer close(busy)
		_, _ = p.Hash(context.Background(), []byte("occupies the worker"))
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Hash(ctx, []byte("x")); err != context.Canceled {
		t.Errorf("Hash on cancelled ctx: got %v, want context.Canceled", err)
	}
	<-busy
}

func TestHashPool_Closed(t *testing.T) {
	p := NewHashPool(NewHasher(bcrypt.MinCost), 1)
	p.Close()
	time.Sleep(20 * time.Millisecond) // let the worker observe the close
	if _, err := p.Hash(context.Background(), []byte("x")); err != ErrPoolClosed {
		t.Errorf("Hash after Close: got %v, want ErrPoolClosed", err)
	}
}
