package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-platform/identity/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, name, password_hash, role, status, image, email_verified, created_at, updated_at`

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Create persists the user to the database. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	name := sql.NullString{String: u.Name, Valid: u.Name != ""}
	hash := sql.NullString{String: u.PasswordHash, Valid: u.PasswordHash != ""}
	image := sql.NullString{String: u.Image, Valid: u.Image != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, status, image, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Email, name, hash, string(u.Role), string(u.Status), image, u.EmailVerified, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

// TouchUpdatedAt bumps updated_at. No-op if the user does not exist.
func (r *PostgresRepository) TouchUpdatedAt(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET updated_at = $2 WHERE id = $1`, userID, at)
	return err
}

// MarkEmailVerified flips email_verified for the user. No-op if the user does not exist.
func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET email_verified = TRUE, updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC(),
	)
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		u           domain.User
		name        sql.NullString
		hash        sql.NullString
		image       sql.NullString
		role, state string
	)
	err := row.Scan(&u.ID, &u.Email, &name, &hash, &role, &state, &image, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Name = name.String
	u.PasswordHash = hash.String
	u.Image = image.String
	u.Role = domain.UserRole(role)
	u.Status = domain.UserStatus(state)
	return &u, nil
}
