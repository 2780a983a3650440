package service

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	mindcli "github.com/set-night/mindcli"
	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/repository"
	"github.com/stretchr/testify/require"
)

type testStore struct {
	db      *sql.DB
	chats   *ChatService
	configs *ConfigService
	history *HistoryService
	prompts *PromptService
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	ctx := context.Background()

	db, err := repository.Open(ctx, filepath.Join(t.TempDir(), "mind.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := fs.Sub(mindcli.SchemaFS, "schema")
	require.NoError(t, err)
	require.NoError(t, repository.InitSchema(ctx, db, schema))

	queries := repository.New(db)
	return &testStore{
		db:      db,
		chats:   NewChatService(db, queries),
		configs: NewConfigService(db, queries),
		history: NewHistoryService(db, queries),
		prompts: NewPromptService(db, queries),
	}
}

var testDefaults = domain.ChatDefaults{
	SystemPrompt:      "You are terse.",
	ModelID:           "test/default",
	ContextWindowSize: 10,
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultModel:        testDefaults.ModelID,
		DefaultSystemPrompt: testDefaults.SystemPrompt,
		DefaultChat:         "Default",
		Models:              []string{"test/default", "test/other"},
	}
}

// mustCreate creates (and activates) each named chat in order.
func (s *testStore) mustCreate(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		_, _, err := s.chats.Create(context.Background(), name, testDefaults)
		require.NoError(t, err)
	}
}

type fakeCompleter struct {
	reply  string
	chunks []string
	err    error
	calls  []CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	if req.OnDelta != nil && len(f.chunks) > 0 {
		for _, c := range f.chunks {
			req.OnDelta(c)
		}
		return strings.Join(f.chunks, ""), nil
	}
	return f.reply, nil
}

type fakeCatalog struct {
	models map[string]domain.AIModel
	err    error
}

func (f *fakeCatalog) GetModel(_ context.Context, id string) (*domain.AIModel, error) {
	if f.err != nil {
		return nil, f.err
	}
	m, ok := f.models[id]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return &m, nil
}

type fakeChooser struct {
	answer  string
	err     error
	offered []string
}

func (f *fakeChooser) ChooseOne(_ string, options []string) (string, error) {
	f.offered = options
	return f.answer, f.err
}
