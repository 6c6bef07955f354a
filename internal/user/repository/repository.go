package repository

import (
	"context"
	"time"

	"event-platform/identity/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// TouchUpdatedAt bumps updated_at. No-op if the user does not exist.
	TouchUpdatedAt(ctx context.Context, userID string, at time.Time) error
	// MarkEmailVerified flips email_verified for the user. No-op if the user does not exist.
	MarkEmailVerified(ctx context.Context, userID string) error
}
