package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
	"github.com/ericfisherdev/govenmo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SessionStore = (*SessionRepo)(nil)

// SessionRepo is the SQLite implementation of the SessionStore port interface.
// Access tokens are encrypted with AES-256-GCM before write and decrypted after read.
type SessionRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil when encryption is disabled.
}

// NewSessionRepo creates a new SessionRepo. key must be 32 bytes for AES-256-GCM,
// or nil to disable session storage (Save and Get return driven.ErrEncryptionKeyNotSet).
func NewSessionRepo(db *DB, key []byte) *SessionRepo {
	return &SessionRepo{db: db, key: key}
}

// Save stores or replaces the session for session.Account.
func (r *SessionRepo) Save(ctx context.Context, session model.Session) error {
	if session.Account == "" {
		return errors.New("save session: account is required")
	}

	encrypted, err := r.encrypt(session.AccessToken)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO sessions (account, access_token, device_id, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(account) DO UPDATE SET
			access_token = excluded.access_token,
			device_id    = excluded.device_id,
			updated_at   = CURRENT_TIMESTAMP`
	_, err = r.db.Writer.ExecContext(ctx, query, session.Account, encrypted, session.DeviceID)
	if err != nil {
		return fmt.Errorf("save session %q: %w", session.Account, err)
	}
	return nil
}

// Get retrieves the session for the given account.
// Returns (nil, nil) if no session exists for that account.
func (r *SessionRepo) Get(ctx context.Context, account string) (*model.Session, error) {
	if r.key == nil {
		return nil, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT account, access_token, device_id, updated_at FROM sessions WHERE account = ?`
	var (
		session   model.Session
		encrypted string
		updatedAt string
	)
	err := r.db.Reader.QueryRowContext(ctx, query, account).
		Scan(&session.Account, &encrypted, &session.DeviceID, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session %q: %w", account, err)
	}

	session.AccessToken, err = r.decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("decrypt session %q: %w", account, err)
	}

	session.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at for session %q: %w", account, err)
	}

	return &session, nil
}

// Delete removes the session for the given account.
func (r *SessionRepo) Delete(ctx context.Context, account string) error {
	const query = `DELETE FROM sessions WHERE account = ?`
	_, err := r.db.Writer.ExecContext(ctx, query, account)
	if err != nil {
		return fmt.Errorf("delete session %q: %w", account, err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *SessionRepo) encrypt(plaintext string) (string, error) {
	if r.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	gcm, err := r.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *SessionRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.aead()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func (r *SessionRepo) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}

// parseTime parses the timestamp formats SQLite produces for CURRENT_TIMESTAMP
// and RFC 3339 values.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
