// Package service implements the session and credential lifecycle: signup,
// signin, refresh with rotation, signout, and the read-only verification
// queries the rest of the platform uses to resolve a token into a user.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"event-platform/identity/internal/credential"
	"event-platform/identity/internal/mail"
	"event-platform/identity/internal/security"
	sessiondomain "event-platform/identity/internal/session/domain"
	userdomain "event-platform/identity/internal/user/domain"
)

// Sentinel errors for the session manager; the handler maps them to HTTP codes.
var (
	ErrInvalidEmail = errors.New("invalid email format")
	ErrEmailTaken   = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot probe which addresses have accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrExternalProvider   = errors.New("account uses an external identity provider; sign in with that provider")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("refresh token expired")
	ErrUserNotFound       = errors.New("user not found")
)

// WeakPasswordError reports the password-policy rules the candidate failed to
// meet. Rules carries the exact client-facing messages.
type WeakPasswordError struct {
	Rules    []string
	Strength credential.Strength
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password does not meet policy: %s", strings.Join(e.Rules, "; "))
}

// UserRepo is the minimal user repository needed by the session manager.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	TouchUpdatedAt(ctx context.Context, userID string, at time.Time) error
	MarkEmailVerified(ctx context.Context, userID string) error
}

// SessionRepo is the minimal session repository needed by the session manager.
type SessionRepo interface {
	GetByAccessToken(ctx context.Context, token string) (*sessiondomain.Session, error)
	GetByRefreshToken(ctx context.Context, token string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	Rotate(ctx context.Context, oldRefreshToken string, s *sessiondomain.Session) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Config holds the token windows. Injected so tests can shorten them.
type Config struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Provenance is optional request metadata recorded on the session.
type Provenance struct {
	UserAgent string
	IPAddress string
}

// AuthResult holds the outcome of SignUp, SignIn, or Refresh.
type AuthResult struct {
	UserID               string
	SessionID            string
	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresAt time.Time
	User                 *userdomain.PublicUser
}

// Verification is the result of VerifySession. NeedsRefresh signals the
// caller to attempt a refresh before forcing re-authentication.
type Verification struct {
	Valid        bool
	NeedsRefresh bool
	UserID       string
}

// SessionManager composes validation, hashing, and the two stores into the
// credential lifecycle state machine.
type SessionManager struct {
	users         UserRepo
	sessions      SessionRepo
	hashes        *security.HashPool
	emailTokens   *security.EmailVerifier
	mailer        mail.Emitter
	verifyBaseURL string
	cfg           Config
	now           func() time.Time
}

// NewSessionManager returns a SessionManager with the given dependencies.
// mailer and emailTokens may be nil, which disables verification email.
func NewSessionManager(
	users UserRepo,
	sessions SessionRepo,
	hashes *security.HashPool,
	emailTokens *security.EmailVerifier,
	mailer mail.Emitter,
	verifyBaseURL string,
	cfg Config,
) *SessionManager {
	return &SessionManager{
		users:         users,
		sessions:      sessions,
		hashes:        hashes,
		emailTokens:   emailTokens,
		mailer:        mailer,
		verifyBaseURL: verifyBaseURL,
		cfg:           cfg,
		now:           time.Now,
	}
}

// SignUp creates a user with the given credentials and opens its first
// session. Verification email is best effort: a broker outage must never
// fail account creation.
func (m *SessionManager) SignUp(ctx context.Context, email, password, name string, prov Provenance) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !credential.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}
	if check := credential.ValidatePassword(password); !check.Valid {
		return nil, &WeakPasswordError{Rules: check.Errors, Strength: check.Strength}
	}
	existing, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hashed, err := m.hashes.Hash(ctx, []byte(password))
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
		Role:         userdomain.UserRoleOrganizer,
		Status:       userdomain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := m.users.Create(ctx, user); err != nil {
		return nil, err
	}
	sess, err := m.createSession(ctx, user.ID, prov)
	if err != nil {
		return nil, err
	}
	m.sendVerificationMail(ctx, user)
	return &AuthResult{
		UserID:               user.ID,
		SessionID:            sess.ID,
		AccessToken:          sess.AccessToken,
		RefreshToken:         sess.RefreshToken,
		AccessTokenExpiresAt: sess.AccessTokenExpiresAt,
		User:                 user.ToPublic(),
	}, nil
}

// SignIn authenticates with email and password and opens a new session.
// Every signin is a new concurrent session; existing ones are untouched.
func (m *SessionManager) SignIn(ctx context.Context, email, password string, prov Provenance) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := m.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.HasPassword() {
		return nil, ErrExternalProvider
	}
	if err := m.hashes.Compare(ctx, user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	// Suspension is checked only after the password verified, so a suspended
	// account answers wrong-password probes exactly like any other account.
	if user.Status == userdomain.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}
	sess, err := m.createSession(ctx, user.ID, prov)
	if err != nil {
		return nil, err
	}
	if err := m.users.TouchUpdatedAt(ctx, user.ID, m.now().UTC()); err != nil {
		log.Printf("auth: touch updated_at for user %s failed: %v", user.ID, err)
	}
	return &AuthResult{
		UserID:               user.ID,
		SessionID:            sess.ID,
		AccessToken:          sess.AccessToken,
		RefreshToken:         sess.RefreshToken,
		AccessTokenExpiresAt: sess.AccessTokenExpiresAt,
		User:                 user.ToPublic(),
	}, nil
}

// Refresh rotates the session holding refreshToken: a brand-new token pair
// replaces the old one and both expiry windows reset. The swap is guarded by
// a compare-and-swap on the presented token, so of two concurrent refreshes
// exactly one wins and the loser gets ErrInvalidToken.
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}
	sess, err := m.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrInvalidToken
	}
	now := m.now().UTC()
	if !sess.RefreshValidAt(now) {
		if err := m.sessions.Delete(ctx, sess.ID); err != nil {
			log.Printf("auth: delete expired session %s failed: %v", sess.ID, err)
		}
		return nil, ErrTokenExpired
	}
	user, err := m.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Orphaned session; the row is useless without its user.
		if err := m.sessions.Delete(ctx, sess.ID); err != nil {
			log.Printf("auth: delete orphaned session %s failed: %v", sess.ID, err)
		}
		return nil, ErrUserNotFound
	}
	access, refresh, err := security.NewTokenPair()
	if err != nil {
		return nil, err
	}
	rotated := &sessiondomain.Session{
		ID:                    sess.ID,
		UserID:                sess.UserID,
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(m.cfg.AccessTTL),
		RefreshTokenExpiresAt: now.Add(m.cfg.RefreshTTL),
		UserAgent:             sess.UserAgent,
		IPAddress:             sess.IPAddress,
		CreatedAt:             sess.CreatedAt,
	}
	ok, err := m.sessions.Rotate(ctx, refreshToken, rotated)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidToken
	}
	return &AuthResult{
		UserID:               user.ID,
		SessionID:            rotated.ID,
		AccessToken:          rotated.AccessToken,
		RefreshToken:         rotated.RefreshToken,
		AccessTokenExpiresAt: rotated.AccessTokenExpiresAt,
		User:                 user.ToPublic(),
	}, nil
}

// SignOut deletes the session holding accessToken. Idempotent: signing out a
// token that matches nothing is not an error.
func (m *SessionManager) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	sess, err := m.sessions.GetByAccessToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	return m.sessions.Delete(ctx, sess.ID)
}

// VerifySession is the lightweight yes/no check for callers that do not need
// the user record.
func (m *SessionManager) VerifySession(ctx context.Context, accessToken string) (*Verification, error) {
	if accessToken == "" {
		return &Verification{}, nil
	}
	sess, err := m.sessions.GetByAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return &Verification{}, nil
	}
	now := m.now().UTC()
	switch sess.StateAt(now) {
	case sessiondomain.StateActive:
		return &Verification{Valid: true, UserID: sess.UserID}, nil
	case sessiondomain.StateAccessExpired:
		return &Verification{NeedsRefresh: true, UserID: sess.UserID}, nil
	default:
		return &Verification{}, nil
	}
}

// CurrentUser resolves accessToken to the redacted user view. A missing or
// expired session yields (nil, nil), never an error.
func (m *SessionManager) CurrentUser(ctx context.Context, accessToken string) (*userdomain.PublicUser, error) {
	if accessToken == "" {
		return nil, nil
	}
	sess, err := m.sessions.GetByAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.AccessValidAt(m.now().UTC()) {
		return nil, nil
	}
	user, err := m.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user.ToPublic(), nil
}

// VerifyEmail consumes a verification token minted at signup and marks the
// account's email as verified.
func (m *SessionManager) VerifyEmail(ctx context.Context, token string) error {
	if m.emailTokens == nil {
		return ErrInvalidToken
	}
	userID, _, err := m.emailTokens.Parse(token)
	if err != nil {
		return ErrInvalidToken
	}
	user, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return m.users.MarkEmailVerified(ctx, userID)
}

func (m *SessionManager) createSession(ctx context.Context, userID string, prov Provenance) (*sessiondomain.Session, error) {
	access, refresh, err := security.NewTokenPair()
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	sess := &sessiondomain.Session{
		ID:                    uuid.New().String(),
		UserID:                userID,
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(m.cfg.AccessTTL),
		RefreshTokenExpiresAt: now.Add(m.cfg.RefreshTTL),
		UserAgent:             prov.UserAgent,
		IPAddress:             prov.IPAddress,
		CreatedAt:             now,
	}
	if err := m.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (m *SessionManager) sendVerificationMail(ctx context.Context, user *userdomain.User) {
	if m.mailer == nil || m.emailTokens == nil {
		return
	}
	token, err := m.emailTokens.Issue(user.ID, user.Email)
	if err != nil {
		log.Printf("auth: issue verification token for user %s failed: %v", user.ID, err)
		return
	}
	mail.EmitAsync(m.mailer, ctx, &mail.Event{
		Kind:      mail.KindVerification,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		VerifyURL: m.verifyBaseURL + "?token=" + token,
		CreatedAt: m.now().UTC(),
	})
}
