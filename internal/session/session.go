// Package session keeps the server side of console logins: an opaque token
// handed to the browser in a cookie, mapped to a copy of the user row taken
// at login time.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"vortexgames/internal/db"
)

var ErrNotFound = errors.New("session not found")

// Store maps session tokens to user snapshots. Implementations must be safe
// for concurrent use.
type Store interface {
	// Create starts a session for user and returns its token.
	Create(ctx context.Context, user db.User) (string, error)
	// Get returns the snapshot for token, or ErrNotFound.
	Get(ctx context.Context, token string) (*db.User, error)
	// Destroy ends the session. Unknown tokens are ignored.
	Destroy(ctx context.Context, token string) error
}

// NewToken returns a random URL-safe session token.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// snapshot copies the fields a session keeps. The password stays behind.
func snapshot(u db.User) db.User {
	u.Password = ""
	return u
}
