package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/repository"
)

// ConfigService reads and updates the config of the active chat. Values are
// stored as given; validation happens in Session.
type ConfigService struct {
	db      *sql.DB
	queries *repository.Queries
}

func NewConfigService(db *sql.DB, queries *repository.Queries) *ConfigService {
	return &ConfigService{db: db, queries: queries}
}

func (s *ConfigService) Get(ctx context.Context) (*domain.ChatConfig, error) {
	chat, err := activeChat(ctx, s.queries)
	if err != nil {
		return nil, err
	}
	return chatConfig(ctx, s.queries, chat.ID)
}

func (s *ConfigService) SetSystemPrompt(ctx context.Context, text string) error {
	return s.update(ctx, "update system prompt", func(chatID string) (int64, error) {
		return s.queries.UpdateSystemPrompt(ctx, repository.UpdateSystemPromptParams{
			ChatID:       chatID,
			SystemPrompt: text,
			UpdatedAt:    now(),
		})
	})
}

func (s *ConfigService) SetContextWindowSize(ctx context.Context, n int) error {
	return s.update(ctx, "update context window size", func(chatID string) (int64, error) {
		return s.queries.UpdateContextWindowSize(ctx, repository.UpdateContextWindowSizeParams{
			ChatID:            chatID,
			ContextWindowSize: int64(n),
			UpdatedAt:         now(),
		})
	})
}

func (s *ConfigService) SetModel(ctx context.Context, modelID string) error {
	return s.update(ctx, "update model", func(chatID string) (int64, error) {
		return s.queries.UpdateModel(ctx, repository.UpdateModelParams{
			ChatID:    chatID,
			ModelID:   modelID,
			UpdatedAt: now(),
		})
	})
}

// ToggleIncludeContext flips the flag and returns the new value.
func (s *ConfigService) ToggleIncludeContext(ctx context.Context) (bool, error) {
	err := s.update(ctx, "toggle include context", func(chatID string) (int64, error) {
		return s.queries.ToggleIncludeContext(ctx, repository.ToggleIncludeContextParams{
			ChatID:    chatID,
			UpdatedAt: now(),
		})
	})
	if err != nil {
		return false, err
	}

	cfg, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return cfg.IncludeContext, nil
}

func (s *ConfigService) update(ctx context.Context, op string, exec func(chatID string) (int64, error)) error {
	chat, err := activeChat(ctx, s.queries)
	if err != nil {
		return err
	}
	n, err := exec(chat.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s for chat %q: %w", op, chat.Name, domain.ErrConfigNotFound)
	}
	return nil
}

func chatConfig(ctx context.Context, q *repository.Queries, chatID string) (*domain.ChatConfig, error) {
	row, err := q.GetChatConfig(ctx, chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("get chat config: %w", err)
	}
	return rowToConfig(row), nil
}
