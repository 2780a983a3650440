package repository

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	mindcli "github.com/set-night/mindcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "mind.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(ctx, db, schemaFS(t)))
	return db
}

func schemaFS(t *testing.T) fs.FS {
	t.Helper()
	sub, err := fs.Sub(mindcli.SchemaFS, "schema")
	require.NoError(t, err)
	return sub
}

func TestInitSchema_CreatesMissingTables(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	names, err := tableNames(ctx, db)
	require.NoError(t, err)
	for _, table := range Tables {
		assert.True(t, names[table], "table %s should exist", table)
	}

	// A second run on a complete schema changes nothing.
	require.NoError(t, InitSchema(ctx, db, schemaFS(t)))

	// A dropped table is recreated without touching the others.
	q := New(db)
	_, err = q.CreateChat(ctx, CreateChatParams{ID: "c1", Name: "keep", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DROP TABLE chat_prompts`)
	require.NoError(t, err)
	require.NoError(t, InitSchema(ctx, db, schemaFS(t)))

	names, err = tableNames(ctx, db)
	require.NoError(t, err)
	assert.True(t, names["chat_prompts"])

	n, err := q.CountChats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInitSchema_MissingDDL(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, filepath.Join(t.TempDir(), "mind.db"))
	require.NoError(t, err)
	defer db.Close()

	err = InitSchema(ctx, db, fs.FS(emptyFS{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chats")
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func TestListRecentMessages_NewestFirst(t *testing.T) {
	ctx := context.Background()
	q := New(openTestDB(t))

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	_, err := q.CreateChat(ctx, CreateChatParams{ID: "c1", Name: "work", CreatedAt: base})
	require.NoError(t, err)

	msgs := []CreateChatMessageParams{
		{ID: "m1", Role: "user", Content: "first", PairKey: "p1", CreatedAt: base},
		{ID: "m2", Role: "assistant", Content: "second", PairKey: "p1", CreatedAt: base},
		{ID: "m3", Role: "user", Content: "third", PairKey: "p2", CreatedAt: base.Add(time.Minute)},
		{ID: "m4", Role: "assistant", Content: "fourth", PairKey: "p2", CreatedAt: base.Add(time.Minute)},
	}
	for _, m := range msgs {
		m.ChatID = "c1"
		require.NoError(t, q.CreateChatMessage(ctx, m))
	}

	rows, err := q.ListRecentMessages(ctx, ListRecentMessagesParams{ChatID: "c1", Limit: 3})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "fourth", rows[0].Content)
	assert.Equal(t, "third", rows[1].Content)
	assert.Equal(t, "second", rows[2].Content)
	assert.True(t, rows[0].CreatedAt.Equal(base.Add(time.Minute)))

	pair, err := q.ListMessagesByPairKey(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, pair, 2)
	assert.Equal(t, "user", pair[0].Role)
	assert.Equal(t, "assistant", pair[1].Role)
}

func TestCreateChatMessage_RejectsUnknownRole(t *testing.T) {
	ctx := context.Background()
	q := New(openTestDB(t))

	_, err := q.CreateChat(ctx, CreateChatParams{ID: "c1", Name: "work", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	err = q.CreateChatMessage(ctx, CreateChatMessageParams{
		ID: "m1", ChatID: "c1", Role: "system", Content: "x", PairKey: "p", CreatedAt: time.Now().UTC(),
	})
	assert.Error(t, err)
}

func TestSearchChatPrompts_CaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	q := New(openTestDB(t))

	ts := time.Now().UTC()
	for _, p := range []CreateChatPromptParams{
		{Name: "Code Reviewer", Version: "v1", Role: "system", Content: "review", ModifiedAt: ts},
		{Name: "translator", Version: "v1", Role: "system", Content: "translate", ModifiedAt: ts},
	} {
		require.NoError(t, q.CreateChatPrompt(ctx, p))
	}

	rows, err := q.SearchChatPrompts(ctx, "review")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Code Reviewer", rows[0].Name)

	rows, err = q.SearchChatPrompts(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
