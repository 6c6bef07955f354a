package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token is malformed, expired, or not ours.
var ErrInvalidToken = errors.New("invalid token")

// emailClaims holds the JWT claims for an email-verification token.
type emailClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// EmailVerifier issues and validates short-lived HS256 tokens embedded in
// verification links. Session tokens are opaque and never go through here.
type EmailVerifier struct {
	secret []byte
	ttl    time.Duration
}

// NewEmailVerifier returns an EmailVerifier signing with secret. ttl <= 0
// defaults to 24h.
func NewEmailVerifier(secret string, ttl time.Duration) *EmailVerifier {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EmailVerifier{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed verification token binding userID and email.
func (v *EmailVerifier) Issue(userID, email string) (string, error) {
	now := time.Now().UTC()
	claims := emailClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
		Email: email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Parse validates the token signature and expiry and returns the bound
// userID and email. Any failure maps to ErrInvalidToken.
func (v *EmailVerifier) Parse(tokenString string) (userID, email string, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &emailClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*emailClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}
	return claims.Subject, claims.Email, nil
}
