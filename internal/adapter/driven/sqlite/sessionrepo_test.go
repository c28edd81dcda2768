package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
	"github.com/ericfisherdev/govenmo/internal/domain/port/driven"
)

func testKey() []byte {
	return []byte(strings.Repeat("k", 32))
}

func TestSessionRepo_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey())
	ctx := context.Background()

	err := repo.Save(ctx, model.Session{Account: "alice", AccessToken: "tok-1", DeviceID: "dev-1"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Account)
	assert.Equal(t, "tok-1", got.AccessToken)
	assert.Equal(t, "dev-1", got.DeviceID)
	assert.WithinDuration(t, time.Now().UTC(), got.UpdatedAt, time.Minute)
}

func TestSessionRepo_TokenEncryptedAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Session{Account: "alice", AccessToken: "plain-token"}))

	var stored string
	err := db.Reader.QueryRowContext(ctx, `SELECT access_token FROM sessions WHERE account = ?`, "alice").Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "plain-token")
}

func TestSessionRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey())

	got, err := repo.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionRepo_SaveOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Session{Account: "alice", AccessToken: "old", DeviceID: "dev-1"}))
	require.NoError(t, repo.Save(ctx, model.Session{Account: "alice", AccessToken: "new", DeviceID: "dev-2"}))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "new", got.AccessToken)
	assert.Equal(t, "dev-2", got.DeviceID)
}

func TestSessionRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Session{Account: "alice", AccessToken: "tok"}))
	require.NoError(t, repo.Delete(ctx, "alice"))

	got, err := repo.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, repo.Delete(ctx, "alice"), "deleting a missing session is not an error")
}

func TestSessionRepo_NoKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, nil)
	ctx := context.Background()

	err := repo.Save(ctx, model.Session{Account: "alice", AccessToken: "tok"})
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)

	_, err = repo.Get(ctx, "alice")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}

func TestSessionRepo_WrongKey(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewSessionRepo(db, testKey()).Save(ctx, model.Session{Account: "alice", AccessToken: "tok"}))

	other := []byte(strings.Repeat("x", 32))
	_, err := NewSessionRepo(db, other).Get(ctx, "alice")
	assert.Error(t, err)
}

func TestSessionRepo_SaveRequiresAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepo(db, testKey())

	assert.Error(t, repo.Save(context.Background(), model.Session{AccessToken: "tok"}))
}
