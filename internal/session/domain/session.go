package domain

import "time"

// Session represents one authenticated device. Both tokens are opaque random
// strings; possession of a token is the only proof of identity. Revocation is
// deletion of the row, so any session that can be loaded may still be live.
type Session struct {
	ID                    string
	UserID                string
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	UserAgent             string
	IPAddress             string
	CreatedAt             time.Time
}

// State describes where a session sits in its lifecycle. It is derived from
// the two expiry timestamps and never stored.
type State string

const (
	// StateActive means the access token is still usable.
	StateActive State = "active"
	// StateAccessExpired means only the refresh token is usable.
	StateAccessExpired State = "access_expired"
	// StateDead means both tokens have expired; the row is garbage.
	StateDead State = "dead"
)

// StateAt returns the lifecycle state of s at the given instant.
func (s *Session) StateAt(now time.Time) State {
	if now.Before(s.AccessTokenExpiresAt) {
		return StateActive
	}
	if now.Before(s.RefreshTokenExpiresAt) {
		return StateAccessExpired
	}
	return StateDead
}

// AccessValidAt reports whether the access token is usable at now.
func (s *Session) AccessValidAt(now time.Time) bool {
	return now.Before(s.AccessTokenExpiresAt)
}

// RefreshValidAt reports whether the refresh token is usable at now.
func (s *Session) RefreshValidAt(now time.Time) bool {
	return now.Before(s.RefreshTokenExpiresAt)
}
