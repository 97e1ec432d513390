package memory

import (
	"context"
	"testing"

	"hr-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	session := store.NewSession("abc")
	session.AppendHistory(store.RoleUser, "list all employees")
	session.LastDatabaseQuery = &store.QueryDescriptor{
		SQL:              "SELECT name FROM employees LIMIT 50 OFFSET 0",
		OriginalQuestion: "list all employees",
		Limit:            50,
	}

	require.NoError(t, repo.Save(ctx, session))

	got, found := repo.Get(ctx, "abc")
	require.True(t, found)
	assert.Equal(t, "abc", got.ID)
	assert.Len(t, got.History, 1)
	require.NotNil(t, got.LastDatabaseQuery)
	assert.Equal(t, 50, got.LastDatabaseQuery.Limit)
}

func TestGetUnknownSession(t *testing.T) {
	repo := NewSessionRepository()

	got, found := repo.Get(context.Background(), "nope")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestDeleteSession(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, store.NewSession("gone")))
	require.NoError(t, repo.Delete(ctx, "gone"))

	_, found := repo.Get(ctx, "gone")
	assert.False(t, found)
}
