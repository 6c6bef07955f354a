package domain

import (
	"errors"
	"time"
)

// User is the core user entity. PasswordHash is empty for accounts created
// through an external identity provider; such accounts cannot sign in with a
// password.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          UserRole
	Status        UserStatus
	Image         string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type UserRole string

const (
	UserRoleSuperadmin UserRole = "superadmin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleOrganizer  UserRole = "organizer"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Role == "" {
		u.Role = UserRoleOrganizer
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// PublicUser is the externally visible view of a user. It never carries the
// password hash.
type PublicUser struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          UserRole   `json:"role"`
	Status        UserStatus `json:"status"`
	Image         string     `json:"image,omitempty"`
	EmailVerified bool       `json:"emailVerified"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ToPublic returns the redacted view of u.
func (u *User) ToPublic() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		Status:        u.Status,
		Image:         u.Image,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
