package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/repository"
)

// ChatService is the chat registry. It owns the single-active-chat invariant:
// every write that changes the active flag runs in one transaction.
type ChatService struct {
	db      *sql.DB
	queries *repository.Queries
}

func NewChatService(db *sql.DB, queries *repository.Queries) *ChatService {
	return &ChatService{db: db, queries: queries}
}

func (s *ChatService) List(ctx context.Context) ([]domain.Chat, error) {
	rows, err := s.queries.ListChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	chats := make([]domain.Chat, len(rows))
	for i, r := range rows {
		chats[i] = *rowToChat(r)
	}
	return chats, nil
}

func (s *ChatService) Get(ctx context.Context, name string) (*domain.Chat, error) {
	row, err := s.queries.GetChatByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return rowToChat(row), nil
}

// Current returns the active chat. A populated registry without one is an
// integrity failure and yields domain.ErrNoActiveChat.
func (s *ChatService) Current(ctx context.Context) (*domain.Chat, error) {
	return activeChat(ctx, s.queries)
}

func (s *ChatService) Count(ctx context.Context) (int64, error) {
	n, err := s.queries.CountChats(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chats: %w", err)
	}
	return n, nil
}

// Create makes name the active chat. A new chat gets its config in the same
// transaction; an existing one is activated instead and created is false.
func (s *ChatService) Create(ctx context.Context, name string, defaults domain.ChatDefaults) (chat *domain.Chat, created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	existing, err := qtx.GetChatByName(ctx, name)
	switch {
	case err == nil:
		chat, err = activate(ctx, qtx, existing)
		if err != nil {
			return nil, false, err
		}
	case errors.Is(err, sql.ErrNoRows):
		chat, err = insertChat(ctx, qtx, name, defaults)
		if err != nil {
			return nil, false, err
		}
		created = true
	default:
		return nil, false, fmt.Errorf("get chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}

	slog.Debug("chat selected", "name", chat.Name, "id", chat.ID, "created", created)
	return chat, created, nil
}

// Activate flips the active flag to name. Activating the active chat is a no-op.
func (s *ChatService) Activate(ctx context.Context, name string) (*domain.Chat, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	row, err := qtx.GetChatByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrChatNotFound
		}
		return nil, fmt.Errorf("get chat: %w", err)
	}
	if row.IsActive {
		return rowToChat(row), nil
	}

	chat, err := activate(ctx, qtx, row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	slog.Debug("chat activated", "name", chat.Name, "id", chat.ID)
	return chat, nil
}

// Delete removes a chat with its config and messages. The last chat cannot be
// deleted. If the active chat is removed, the most recently selected remaining
// chat becomes active in the same transaction.
func (s *ChatService) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	count, err := qtx.CountChats(ctx)
	if err != nil {
		return fmt.Errorf("count chats: %w", err)
	}
	if count <= 1 {
		return domain.ErrLastChat
	}

	row, err := qtx.GetChatByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrChatNotFound
		}
		return fmt.Errorf("get chat: %w", err)
	}

	if _, err := qtx.DeleteChatMessages(ctx, row.ID); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	if err := qtx.DeleteChatConfig(ctx, row.ID); err != nil {
		return fmt.Errorf("delete config: %w", err)
	}
	if _, err := qtx.DeleteChat(ctx, row.ID); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	if row.IsActive {
		if err := promoteMostRecent(ctx, qtx); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.Debug("chat deleted", "name", row.Name, "id", row.ID, "was_active", row.IsActive)
	return nil
}

func (s *ChatService) Rename(ctx context.Context, oldName, newName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	row, err := qtx.GetChatByName(ctx, oldName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrChatNotFound
		}
		return fmt.Errorf("get chat: %w", err)
	}
	if oldName == newName {
		return nil
	}

	if _, err := qtx.GetChatByName(ctx, newName); err == nil {
		return domain.ErrChatExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get chat: %w", err)
	}

	if err := qtx.RenameChat(ctx, repository.RenameChatParams{ID: row.ID, Name: newName}); err != nil {
		return fmt.Errorf("rename chat: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.Debug("chat renamed", "from", oldName, "to", newName, "id", row.ID)
	return nil
}

// Bootstrap creates the first chat when the registry is empty.
func (s *ChatService) Bootstrap(ctx context.Context, name string, defaults domain.ChatDefaults) (*domain.Chat, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return s.Current(ctx)
	}

	chat, _, err := s.Create(ctx, name, defaults)
	if err != nil {
		return nil, fmt.Errorf("bootstrap chat: %w", err)
	}
	slog.Info("created initial chat", "name", chat.Name)
	return chat, nil
}

func activeChat(ctx context.Context, q *repository.Queries) (*domain.Chat, error) {
	row, err := q.GetActiveChat(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoActiveChat
		}
		return nil, fmt.Errorf("get active chat: %w", err)
	}
	return rowToChat(row), nil
}

func activate(ctx context.Context, qtx *repository.Queries, row repository.Chat) (*domain.Chat, error) {
	ts := now()
	if err := qtx.DeactivateChats(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("deactivate chats: %w", err)
	}
	if err := qtx.ActivateChat(ctx, repository.ActivateChatParams{ID: row.ID, SelectedAt: ts}); err != nil {
		return nil, fmt.Errorf("activate chat: %w", err)
	}
	row.IsActive = true
	row.LastSelectedAt = ts
	return rowToChat(row), nil
}

func insertChat(ctx context.Context, qtx *repository.Queries, name string, defaults domain.ChatDefaults) (*domain.Chat, error) {
	if defaults.ContextWindowSize <= 0 {
		defaults.ContextWindowSize = config.DefaultContextWindowSize
	}

	ts := now()
	row, err := qtx.CreateChat(ctx, repository.CreateChatParams{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: ts,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	if err := qtx.DeactivateChats(ctx, row.ID); err != nil {
		return nil, fmt.Errorf("deactivate chats: %w", err)
	}

	if _, err := qtx.CreateChatConfig(ctx, repository.CreateChatConfigParams{
		ID:                uuid.NewString(),
		ChatID:            row.ID,
		SystemPrompt:      defaults.SystemPrompt,
		IncludeContext:    true,
		ContextWindowSize: int64(defaults.ContextWindowSize),
		ModelID:           defaults.ModelID,
		UpdatedAt:         ts,
	}); err != nil {
		return nil, fmt.Errorf("create chat config: %w", err)
	}

	return rowToChat(row), nil
}

func promoteMostRecent(ctx context.Context, qtx *repository.Queries) error {
	rows, err := qtx.ListChats(ctx)
	if err != nil {
		return fmt.Errorf("list chats: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	next := rows[0]
	for _, r := range rows[1:] {
		if r.LastSelectedAt.After(next.LastSelectedAt) {
			next = r
		}
	}
	_, err = activate(ctx, qtx, next)
	return err
}
