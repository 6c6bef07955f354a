package repository

import (
	"context"
	"time"

	"event-platform/identity/internal/session/domain"
)

// Repository defines persistence for sessions.
type Repository interface {
	GetByAccessToken(ctx context.Context, token string) (*domain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// Rotate replaces the token pair of the session currently holding
	// oldRefreshToken. Returns false when no session holds that token, which
	// includes losing a concurrent rotation race.
	Rotate(ctx context.Context, oldRefreshToken string, s *domain.Session) (bool, error)
	// Delete removes the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions whose refresh token expired before cutoff
	// and returns how many rows were removed.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
