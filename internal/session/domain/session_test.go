package domain

import (
	"testing"
	"time"
)

func TestStateAt(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Session{
		AccessTokenExpiresAt:  base.Add(15 * time.Minute),
		RefreshTokenExpiresAt: base.Add(168 * time.Hour),
	}

	tests := []struct {
		name string
		at   time.Time
		want State
	}{
		{"just created", base, StateActive},
		{"one second before access expiry", base.Add(15*time.Minute - time.Second), StateActive},
		{"exactly at access expiry", base.Add(15 * time.Minute), StateAccessExpired},
		{"between expiries", base.Add(24 * time.Hour), StateAccessExpired},
		{"one second before refresh expiry", base.Add(168*time.Hour - time.Second), StateAccessExpired},
		{"exactly at refresh expiry", base.Add(168 * time.Hour), StateDead},
		{"long after", base.Add(1000 * time.Hour), StateDead},
	}
	for _, tt := range tests {
		if got := s.StateAt(tt.at); got != tt.want {
			t.Errorf("%s: StateAt = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestTokenValidity(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Session{
		AccessTokenExpiresAt:  base.Add(15 * time.Minute),
		RefreshTokenExpiresAt: base.Add(168 * time.Hour),
	}

	if !s.AccessValidAt(base) {
		t.Error("access token should be valid at creation")
	}
	if s.AccessValidAt(base.Add(15 * time.Minute)) {
		t.Error("access token invalid exactly at expiry")
	}
	if !s.RefreshValidAt(base.Add(24 * time.Hour)) {
		t.Error("refresh token should outlive access token")
	}
	if s.RefreshValidAt(base.Add(168 * time.Hour)) {
		t.Error("refresh token invalid exactly at expiry")
	}
}
