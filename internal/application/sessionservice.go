package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
	"github.com/ericfisherdev/govenmo/internal/domain/port/driven"
)

// ErrNoSession is returned when an operation needs a stored session and the
// account has none.
var ErrNoSession = errors.New("no stored session: log in first")

// SessionService orchestrates logins against the platform and their
// persistence. It depends only on port interfaces. A nil store, or one without
// an encryption key, disables persistence.
type SessionService struct {
	auth  driven.Authenticator
	store driven.SessionStore
}

// NewSessionService creates a new SessionService with the required dependencies.
func NewSessionService(auth driven.Authenticator, store driven.SessionStore) *SessionService {
	return &SessionService{
		auth:  auth,
		store: store,
	}
}

// Login authenticates account and stores the resulting session. The device id
// is taken from deviceID when set, otherwise from the account's stored
// session, so a device trusted on an earlier login skips the two-factor
// challenge.
func (s *SessionService) Login(ctx context.Context, account, password, deviceID string) (*model.Session, error) {
	if deviceID == "" {
		stored, err := s.load(ctx, account)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			deviceID = stored.DeviceID
		}
	}

	token, usedDeviceID, err := s.auth.Login(ctx, account, password, deviceID)
	if err != nil {
		return nil, fmt.Errorf("logging in %s: %w", account, err)
	}

	session := model.Session{
		Account:     account,
		AccessToken: token,
		DeviceID:    usedDeviceID,
		UpdatedAt:   time.Now().UTC(),
	}

	if s.store != nil {
		err := s.store.Save(ctx, session)
		switch {
		case errors.Is(err, driven.ErrEncryptionKeyNotSet):
			slog.Warn("session not persisted", "account", account, "error", err)
		case err != nil:
			return nil, fmt.Errorf("storing session for %s: %w", account, err)
		default:
			slog.Info("session stored", "account", account)
		}
	}

	return &session, nil
}

// Resume returns the stored session for account.
func (s *SessionService) Resume(ctx context.Context, account string) (*model.Session, error) {
	session, err := s.load(ctx, account)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoSession
	}
	return session, nil
}

// Logout revokes the access token and forgets the stored session. When
// accessToken is empty the stored token is revoked.
func (s *SessionService) Logout(ctx context.Context, account, accessToken string) error {
	if accessToken == "" {
		session, err := s.Resume(ctx, account)
		if err != nil {
			return err
		}
		accessToken = session.AccessToken
	}

	if err := s.auth.LogOut(ctx, accessToken); err != nil {
		return fmt.Errorf("logging out %s: %w", account, err)
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, account); err != nil {
			return fmt.Errorf("deleting session for %s: %w", account, err)
		}
	}
	return nil
}

// load reads the stored session, treating a disabled store as empty.
func (s *SessionService) load(ctx context.Context, account string) (*model.Session, error) {
	if s.store == nil || account == "" {
		return nil, nil
	}

	session, err := s.store.Get(ctx, account)
	if errors.Is(err, driven.ErrEncryptionKeyNotSet) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session for %s: %w", account, err)
	}
	return session, nil
}
