package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-platform/identity/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, access_token, refresh_token, access_token_expires_at, refresh_token_expires_at, user_agent, ip_address, created_at`

// GetByAccessToken returns the session holding the access token, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByAccessToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE access_token = $1`, token)
	return scanSession(row)
}

// GetByRefreshToken returns the session holding the refresh token, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE refresh_token = $1`, token)
	return scanSession(row)
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	ua := sql.NullString{String: s.UserAgent, Valid: s.UserAgent != ""}
	ip := sql.NullString{String: s.IPAddress, Valid: s.IPAddress != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, access_token, refresh_token, access_token_expires_at, refresh_token_expires_at, user_agent, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.UserID, s.AccessToken, s.RefreshToken, s.AccessTokenExpiresAt, s.RefreshTokenExpiresAt, ua, ip, s.CreatedAt,
	)
	return err
}

// Rotate swaps in the new token pair guarded by the old refresh token. The
// WHERE clause on the old token is what makes concurrent rotations race
// safely: exactly one caller matches the row, the rest see zero rows updated.
func (r *PostgresRepository) Rotate(ctx context.Context, oldRefreshToken string, s *domain.Session) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET access_token = $2,
		    refresh_token = $3,
		    access_token_expires_at = $4,
		    refresh_token_expires_at = $5
		WHERE refresh_token = $1`,
		oldRefreshToken, s.AccessToken, s.RefreshToken, s.AccessTokenExpiresAt, s.RefreshTokenExpiresAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpired removes sessions whose refresh token expired before cutoff.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token_expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var (
		s      domain.Session
		ua, ip sql.NullString
	)
	err := row.Scan(&s.ID, &s.UserID, &s.AccessToken, &s.RefreshToken, &s.AccessTokenExpiresAt, &s.RefreshTokenExpiresAt, &ua, &ip, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.UserAgent = ua.String
	s.IPAddress = ip.String
	return &s, nil
}
