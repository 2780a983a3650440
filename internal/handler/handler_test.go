package handler

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	mindcli "github.com/set-night/mindcli"
	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/repository"
	"github.com/set-night/mindcli/internal/service"
	"github.com/set-night/mindcli/internal/ui"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoCompleter struct{}

func (echoCompleter) Complete(_ context.Context, req service.CompletionRequest) (string, error) {
	last := req.Messages[len(req.Messages)-1]
	reply := "echo: " + last.Content
	if req.OnDelta != nil {
		req.OnDelta(reply)
	}
	return reply, nil
}

type cli struct {
	h   *Handler
	out *bytes.Buffer
}

func newCLI(t *testing.T, input string) *cli {
	t.Helper()
	color.NoColor = true
	ctx := context.Background()

	db, err := repository.Open(ctx, filepath.Join(t.TempDir(), "mind.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := fs.Sub(mindcli.SchemaFS, "schema")
	require.NoError(t, err)
	require.NoError(t, repository.InitSchema(ctx, db, schema))

	cfg := &config.Config{
		OpenRouterKey:       "sk-test",
		DefaultModel:        "test/default",
		DefaultSystemPrompt: "Be brief.",
		DefaultChat:         "Default",
		Models:              []string{"test/default", "test/other"},
	}

	queries := repository.New(db)
	chats := service.NewChatService(db, queries)
	configs := service.NewConfigService(db, queries)
	history := service.NewHistoryService(db, queries)
	prompts := service.NewPromptService(db, queries)

	_, err = chats.Bootstrap(ctx, cfg.DefaultChat, cfg.ChatDefaults())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	term := ui.NewTerminal(strings.NewReader(input), out, false)

	session := service.NewSession(service.SessionDeps{
		Chats:   chats,
		Configs: configs,
		History: history,
		Prompts: prompts,
		LLM:     echoCompleter{},
		UI:      term,
		Cfg:     cfg,
	})

	return &cli{
		h: New(Deps{
			Cfg:            cfg,
			Session:        session,
			ChatService:    chats,
			ConfigService:  configs,
			HistoryService: history,
			PromptService:  prompts,
			OpenRouter:     service.NewOpenRouterService(cfg.OpenRouterKey, "http://127.0.0.1:0"),
			Terminal:       term,
		}),
		out: out,
	}
}

// run executes one command line and returns what it printed.
func (c *cli) run(t *testing.T, args ...string) string {
	t.Helper()
	c.out.Reset()

	root := &cobra.Command{Use: "mind", SilenceUsage: true, SilenceErrors: true}
	c.h.Register(root)
	root.SetArgs(args)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return c.out.String()
}

func TestCLI_AskAndHistory(t *testing.T) {
	c := newCLI(t, "")

	out := c.run(t, "what", "is", "go")
	assert.Contains(t, out, "echo: what is go")

	out = c.run(t, "ask", "again")
	assert.Contains(t, out, "echo: again")

	out = c.run(t, "chat", "history", "-n", "2")
	assert.Contains(t, out, "again")
	assert.Contains(t, out, "echo: again")
	assert.NotContains(t, out, "what is go")

	out = c.run(t, "chat", "history", "-n", "0")
	assert.Contains(t, out, "history count must be a positive integer")

	out = c.run(t, "chat", "reset")
	assert.Contains(t, out, "cleared 4 messages")
}

func TestCLI_ChatLifecycle(t *testing.T) {
	c := newCLI(t, "1\n")

	out := c.run(t, "chat", "switch", "work")
	assert.Contains(t, out, `created chat "work"`)
	assert.Contains(t, out, "active chat: work")

	out = c.run(t, "chat", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "* work"))
	assert.True(t, strings.HasPrefix(lines[1], "  Default"))

	out = c.run(t, "chat", "rm")
	assert.Contains(t, out, "deleted chat: Default")

	out = c.run(t, "chat", "rm")
	assert.Contains(t, out, "cannot delete the last remaining chat")

	out = c.run(t, "chat", "rename", "work", "  ")
	assert.Contains(t, out, "chat name must not be blank")

	out = c.run(t, "chat", "rename", "work", "main")
	assert.Contains(t, out, "renamed work to main")
}

func TestCLI_Config(t *testing.T) {
	c := newCLI(t, "")

	out := c.run(t, "config", "window", "0")
	assert.Contains(t, out, "context window size must be a positive integer")

	out = c.run(t, "config", "window", "abc")
	assert.Contains(t, out, "context window size must be a positive integer")

	out = c.run(t, "config", "window", "3")
	assert.Contains(t, out, "context window: 3 messages")

	out = c.run(t, "config", "context")
	assert.Contains(t, out, "include context: off")

	out = c.run(t, "config", "model", "test/other")
	assert.Contains(t, out, "model: test/other")

	out = c.run(t, "config", "prompt", "Talk", "like", "a", "pirate.")
	assert.Contains(t, out, "system prompt updated")

	out = c.run(t, "config")
	assert.Contains(t, out, "test/other")
	assert.Contains(t, out, "Talk like a pirate.")
	assert.Contains(t, out, "off")
}

func TestCLI_Prompts(t *testing.T) {
	c := newCLI(t, "")

	out := c.run(t, "prompt", "publish", "pirate", "v1", "Talk like a pirate.")
	assert.Contains(t, out, "published pirate@v1")

	out = c.run(t, "prompt", "publish", "pirate", "v1", "Talk like a pirate, matey.")
	assert.Contains(t, out, "updated pirate@v1")

	out = c.run(t, "prompt", "search", "pir")
	assert.Contains(t, out, "pirate")

	out = c.run(t, "prompt", "use", "pirate")
	assert.Contains(t, out, "system prompt set from pirate@v1")
	out = c.run(t, "config", "show")
	assert.Contains(t, out, "Talk like a pirate, matey.")

	out = c.run(t, "prompt", "use", "ghost")
	assert.Contains(t, out, "prompt not found")
}
