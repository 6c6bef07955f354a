package security

import (
	"crypto/rand"
	"encoding/base64"
)

// tokenRawSize is the number of random bytes per session token. 32 bytes gives
// 256 bits of entropy, comfortably above the 128-bit class the collision
// analysis assumes.
const tokenRawSize = 32

// NewToken returns an opaque, unguessable token: base64url (no padding) over
// crypto/rand bytes. Tokens are lookup keys, never parsed.
func NewToken() (string, error) {
	b := make([]byte, tokenRawSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewTokenPair returns a fresh access token and refresh token.
func NewTokenPair() (access, refresh string, err error) {
	if access, err = NewToken(); err != nil {
		return "", "", err
	}
	if refresh, err = NewToken(); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
