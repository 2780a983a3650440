package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/domain"
)

// Chooser asks the user to pick one of the named options.
type Chooser interface {
	ChooseOne(prompt string, options []string) (string, error)
}

// Session composes the stores into the operations the CLI calls. It holds no
// state of its own and validates user input before it reaches storage.
type Session struct {
	chats   *ChatService
	configs *ConfigService
	history *HistoryService
	prompts *PromptService
	llm     Completer
	catalog ModelCatalog
	ui      Chooser
	cfg     *config.Config
}

// SessionDeps contains all dependencies required to construct a Session.
type SessionDeps struct {
	Chats   *ChatService
	Configs *ConfigService
	History *HistoryService
	Prompts *PromptService
	LLM     Completer
	Catalog ModelCatalog
	UI      Chooser
	Cfg     *config.Config
}

func NewSession(deps SessionDeps) *Session {
	return &Session{
		chats:   deps.Chats,
		configs: deps.Configs,
		history: deps.History,
		prompts: deps.Prompts,
		llm:     deps.LLM,
		catalog: deps.Catalog,
		ui:      deps.UI,
		cfg:     deps.Cfg,
	}
}

// Answer is the result of one completed exchange.
type Answer struct {
	Text    string
	Model   string
	PairKey string
}

// BuildMessages assembles the request for userText: the system prompt, the
// context window when enabled, then the question.
func (s *Session) BuildMessages(ctx context.Context, userText string) ([]domain.Message, *domain.ChatConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, nil, err
	}

	msgs := []domain.Message{{Role: domain.RoleSystem, Content: cfg.SystemPrompt}}
	if cfg.IncludeContext {
		window, err := s.history.ContextWindow(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, m := range window {
			msgs = append(msgs, domain.Message{Role: m.Role, Content: m.Content})
		}
	}
	msgs = append(msgs, domain.Message{Role: domain.RoleUser, Content: userText})
	return msgs, cfg, nil
}

// AskOnce sends userText to the model of the active chat and records the turn
// once the answer is complete. onDelta, if set, receives streamed fragments.
func (s *Session) AskOnce(ctx context.Context, userText string, onDelta func(string)) (*Answer, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, domain.ErrEmptyQuestion
	}

	msgs, cfg, err := s.BuildMessages(ctx, userText)
	if err != nil {
		return nil, err
	}

	slog.Debug("sending request", "model", cfg.ModelID, "messages", len(msgs))
	text, err := s.llm.Complete(ctx, CompletionRequest{
		Model:    cfg.ModelID,
		Messages: msgs,
		OnDelta:  onDelta,
	})
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		slog.Warn("empty answer, turn not recorded", "model", cfg.ModelID)
		return nil, domain.ErrEmptyAnswer
	}

	pairKey, err := s.history.AppendTurn(ctx, userText, text)
	if err != nil {
		return nil, err
	}

	return &Answer{Text: text, Model: cfg.ModelID, PairKey: pairKey}, nil
}

// SwitchOrCreateChat makes name the active chat, creating it with the
// configured defaults if needed.
func (s *Session) SwitchOrCreateChat(ctx context.Context, name string) (*domain.Chat, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domain.ErrInvalidChatName
	}
	return s.chats.Create(ctx, name, s.cfg.ChatDefaults())
}

// RenameChat renames a chat. Both names are trimmed and the new one must not be blank.
func (s *Session) RenameChat(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.ErrInvalidChatName
	}
	return s.chats.Rename(ctx, strings.TrimSpace(oldName), newName)
}

// RemoveChat lets the user pick one of the inactive chats and deletes it.
// It returns the deleted name.
func (s *Session) RemoveChat(ctx context.Context) (string, error) {
	count, err := s.chats.Count(ctx)
	if err != nil {
		return "", err
	}
	if count <= 1 {
		return "", domain.ErrLastChat
	}

	chats, err := s.chats.List(ctx)
	if err != nil {
		return "", err
	}

	var options []string
	for _, c := range chats {
		if !c.IsActive {
			options = append(options, c.Name)
		}
	}

	name, err := s.ui.ChooseOne("Select a chat to delete", options)
	if err != nil {
		return "", err
	}
	if err := s.DeleteChat(ctx, name); err != nil {
		return "", err
	}
	return name, nil
}

// DeleteChat deletes an inactive chat by name.
func (s *Session) DeleteChat(ctx context.Context, name string) error {
	chat, err := s.chats.Get(ctx, name)
	if err != nil {
		return err
	}
	if chat.IsActive {
		return domain.ErrActiveChatTarget
	}
	return s.chats.Delete(ctx, name)
}

func (s *Session) SetSystemPrompt(ctx context.Context, text string) error {
	return s.configs.SetSystemPrompt(ctx, text)
}

func (s *Session) SetContextWindowSize(ctx context.Context, n int) error {
	if n <= 0 {
		return domain.ErrInvalidWindowSize
	}
	return s.configs.SetContextWindowSize(ctx, n)
}

// SetModel accepts ids from the configured allow-list or the provider catalog.
func (s *Session) SetModel(ctx context.Context, modelID string) error {
	modelID = strings.TrimSpace(modelID)
	if modelID == "" {
		return domain.ErrModelNotFound
	}

	if !s.cfg.IsAllowedModel(modelID) {
		if s.catalog == nil {
			return fmt.Errorf("%w: %s", domain.ErrModelNotFound, modelID)
		}
		if _, err := s.catalog.GetModel(ctx, modelID); err != nil {
			if !errors.Is(err, domain.ErrModelNotFound) {
				slog.Warn("model catalog unavailable", "error", err)
			}
			return fmt.Errorf("%w: %s", domain.ErrModelNotFound, modelID)
		}
	}

	return s.configs.SetModel(ctx, modelID)
}

func (s *Session) ToggleIncludeContext(ctx context.Context) (bool, error) {
	return s.configs.ToggleIncludeContext(ctx)
}

// UsePrompt copies a library prompt into the active chat's system prompt.
func (s *Session) UsePrompt(ctx context.Context, name, version string) (*domain.ChatPrompt, error) {
	p, err := s.prompts.Get(ctx, name, version)
	if err != nil {
		return nil, err
	}
	if err := s.configs.SetSystemPrompt(ctx, p.Content); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Session) ResetHistory(ctx context.Context) (int64, error) {
	return s.history.Clear(ctx)
}
