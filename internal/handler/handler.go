package handler

import (
	"errors"

	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/middleware"
	"github.com/set-night/mindcli/internal/service"
	"github.com/set-night/mindcli/internal/ui"
	"github.com/spf13/cobra"
)

// Handler holds all dependencies needed by the CLI commands.
type Handler struct {
	cfg            *config.Config
	session        *service.Session
	chatService    *service.ChatService
	configService  *service.ConfigService
	historyService *service.HistoryService
	promptService  *service.PromptService
	openRouter     *service.OpenRouterService
	term           *ui.Terminal
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Cfg            *config.Config
	Session        *service.Session
	ChatService    *service.ChatService
	ConfigService  *service.ConfigService
	HistoryService *service.HistoryService
	PromptService  *service.PromptService
	OpenRouter     *service.OpenRouterService
	Terminal       *ui.Terminal
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		cfg:            deps.Cfg,
		session:        deps.Session,
		chatService:    deps.ChatService,
		configService:  deps.ConfigService,
		historyService: deps.HistoryService,
		promptService:  deps.PromptService,
		openRouter:     deps.OpenRouter,
		term:           deps.Terminal,
	}
}

// Register attaches every command to root and makes root itself ask a question.
func (h *Handler) Register(root *cobra.Command) {
	root.Args = cobra.ArbitraryArgs
	root.RunE = h.wrap(h.handleAsk)

	root.AddCommand(
		h.askCommand(),
		h.chatCommand(),
		h.configCommand(),
		h.promptCommand(),
		h.modelsCommand(),
	)
}

func (h *Handler) wrap(run middleware.RunFunc) func(*cobra.Command, []string) error {
	return middleware.Chain(h.reporting(run), middleware.Recover(), middleware.Logging())
}

// userErrors are expected conditions shown to the user instead of failing the command.
var userErrors = []error{
	domain.ErrChatNotFound,
	domain.ErrChatExists,
	domain.ErrLastChat,
	domain.ErrActiveChatTarget,
	domain.ErrPromptNotFound,
	domain.ErrModelNotFound,
	domain.ErrInvalidWindowSize,
	domain.ErrInvalidChatName,
	domain.ErrEmptyQuestion,
	domain.ErrEmptyAnswer,
	domain.ErrInvalidHistoryCount,
	domain.ErrMissingAPIKey,
	ui.ErrCancelled,
	ui.ErrNoOptions,
}

func (h *Handler) reporting(run middleware.RunFunc) middleware.RunFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err == nil {
			return nil
		}
		for _, target := range userErrors {
			if errors.Is(err, target) {
				h.term.Warn("%s", err)
				return nil
			}
		}
		return err
	}
}
