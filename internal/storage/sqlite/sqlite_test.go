package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/logging"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), MemoryPath, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUncommittedInsertKeepsZeroID(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	tx, err := s.begin(ctx)
	require.NoError(t, err)

	user := &catalogs.User{Login: "pending"}
	require.NoError(t, upsert(ctx, tx, "users", &user.ID, []string{"login"}, []any{user.Login}))
	assert.NotZero(t, user.ID)

	assigned := user.ID
	tx.discard()
	assert.Zero(t, user.ID)

	_, err = s.Get(ctx, catalogs.KindUser, assigned)
	assert.True(t, errors.IsNotFound(err))
}

func TestCommittedInsertKeepsID(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	tx, err := s.begin(ctx)
	require.NoError(t, err)

	user := &catalogs.User{Login: "seller"}
	require.NoError(t, upsert(ctx, tx, "users", &user.ID, []string{"login"}, []any{user.Login}))
	require.NoError(t, tx.commit())
	tx.discard()

	require.NotZero(t, user.ID)
	got, err := s.Get(ctx, catalogs.KindUser, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "seller", got.(*catalogs.User).Login)
}

func TestSaveFailureKeepsZeroID(t *testing.T) {
	s := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	user := &catalogs.User{Login: "late"}
	require.Error(t, s.Save(ctx, user))
	assert.Zero(t, user.ID)
}
