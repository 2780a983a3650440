package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mindcli "github.com/set-night/mindcli"
	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/handler"
	"github.com/set-night/mindcli/internal/repository"
	"github.com/set-night/mindcli/internal/service"
	"github.com/set-night/mindcli/internal/ui"
	"github.com/spf13/cobra"
)

func main() {
	// Until the config is loaded, log warnings and above as text
	slog.SetDefault(newLogger("warn", "text"))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg.LogLevel, cfg.LogFormat))

	// Setup context with interrupt handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.EnsureDataDir(); err != nil {
		slog.Error("failed to prepare data dir", "error", err)
		return err
	}

	// Open the embedded store
	db, err := repository.Open(ctx, cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err, "path", cfg.DBPath)
		return err
	}
	defer db.Close()

	// Create missing tables
	schemaFS, err := fs.Sub(mindcli.SchemaFS, "schema")
	if err != nil {
		slog.Error("failed to load embedded schema", "error", err)
		return err
	}
	if err := repository.InitSchema(ctx, db, schemaFS); err != nil {
		slog.Error("failed to initialize schema", "error", err)
		return err
	}

	queries := repository.New(db)

	// Initialize services
	chatService := service.NewChatService(db, queries)
	configService := service.NewConfigService(db, queries)
	historyService := service.NewHistoryService(db, queries)
	promptService := service.NewPromptService(db, queries)
	openRouter := service.NewOpenRouterService(cfg.OpenRouterKey, cfg.OpenRouterURL)
	terminal := ui.NewTerminal(os.Stdin, os.Stdout, cfg.RenderMarkdown)

	if _, err := chatService.Bootstrap(ctx, cfg.DefaultChat, cfg.ChatDefaults()); err != nil {
		slog.Error("failed to bootstrap chats", "error", err)
		return err
	}

	session := service.NewSession(service.SessionDeps{
		Chats:   chatService,
		Configs: configService,
		History: historyService,
		Prompts: promptService,
		LLM:     openRouter,
		Catalog: openRouter,
		UI:      terminal,
		Cfg:     cfg,
	})

	h := handler.New(handler.Deps{
		Cfg:            cfg,
		Session:        session,
		ChatService:    chatService,
		ConfigService:  configService,
		HistoryService: historyService,
		PromptService:  promptService,
		OpenRouter:     openRouter,
		Terminal:       terminal,
	})

	root := &cobra.Command{
		Use:           "mind [question...]",
		Short:         "Chat with language models from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	h.Register(root)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		slog.Debug("command failed", "error", err)
		return err
	}
	return nil
}
