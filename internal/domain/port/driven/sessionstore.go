package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

// ErrEncryptionKeyNotSet is returned by SessionStore operations when
// VENMO_SECRET_KEY has not been configured.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set VENMO_SECRET_KEY")

// SessionStore defines the driven port for persisting logins between runs.
// The adapter layer is responsible for encrypting the access token; this
// interface operates on plaintext values at the domain boundary.
type SessionStore interface {
	// Save stores or replaces the session for session.Account.
	Save(ctx context.Context, session model.Session) error

	// Get retrieves the session for the given account.
	// Returns (nil, nil) if no session exists.
	Get(ctx context.Context, account string) (*model.Session, error)

	// Delete removes the session for the given account.
	Delete(ctx context.Context, account string) error
}
