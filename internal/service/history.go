package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/repository"
)

// HistoryService is the append-only message log of the active chat.
type HistoryService struct {
	db      *sql.DB
	queries *repository.Queries
}

func NewHistoryService(db *sql.DB, queries *repository.Queries) *HistoryService {
	return &HistoryService{db: db, queries: queries}
}

// AppendTurn writes one user and one assistant message under a fresh pair key
// in a single transaction and returns the key. A turn with an empty half is not
// written and yields domain.ErrIncompleteTurn.
func (s *HistoryService) AppendTurn(ctx context.Context, userText, assistantText string) (string, error) {
	if userText == "" || assistantText == "" {
		slog.Warn("skipping incomplete turn", "user_empty", userText == "", "assistant_empty", assistantText == "")
		return "", domain.ErrIncompleteTurn
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	chat, err := activeChat(ctx, qtx)
	if err != nil {
		return "", err
	}

	pairKey := uuid.NewString()
	ts := now()
	turn := []domain.Message{
		{Role: domain.RoleUser, Content: userText},
		{Role: domain.RoleAssistant, Content: assistantText},
	}

	for _, m := range turn {
		if err := qtx.CreateChatMessage(ctx, repository.CreateChatMessageParams{
			ID:        uuid.NewString(),
			ChatID:    chat.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			PairKey:   pairKey,
			CreatedAt: ts,
		}); err != nil {
			return "", fmt.Errorf("insert %s message: %w", m.Role, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	slog.Debug("turn appended", "chat", chat.Name, "pair_key", pairKey)
	return pairKey, nil
}

// ContextWindow returns the most recent messages of the active chat, bounded by
// its configured window size, oldest first.
func (s *HistoryService) ContextWindow(ctx context.Context) ([]domain.ChatMessage, error) {
	chat, err := activeChat(ctx, s.queries)
	if err != nil {
		return nil, err
	}
	cfg, err := chatConfig(ctx, s.queries, chat.ID)
	if err != nil {
		return nil, err
	}
	return s.recent(ctx, chat.ID, cfg.ContextWindowSize)
}

// HistoryWindow is ContextWindow with an explicit count.
func (s *HistoryService) HistoryWindow(ctx context.Context, count int) ([]domain.ChatMessage, error) {
	chat, err := activeChat(ctx, s.queries)
	if err != nil {
		return nil, err
	}
	return s.recent(ctx, chat.ID, count)
}

// Clear deletes every message of the active chat and returns how many were removed.
func (s *HistoryService) Clear(ctx context.Context) (int64, error) {
	chat, err := activeChat(ctx, s.queries)
	if err != nil {
		return 0, err
	}
	n, err := s.queries.DeleteChatMessages(ctx, chat.ID)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	slog.Debug("history cleared", "chat", chat.Name, "deleted", n)
	return n, nil
}

func (s *HistoryService) Pair(ctx context.Context, pairKey string) ([]domain.ChatMessage, error) {
	rows, err := s.queries.ListMessagesByPairKey(ctx, pairKey)
	if err != nil {
		return nil, fmt.Errorf("get pair: %w", err)
	}
	msgs := make([]domain.ChatMessage, len(rows))
	for i, r := range rows {
		msgs[i] = rowToMessage(r)
	}
	return msgs, nil
}

func (s *HistoryService) Count(ctx context.Context) (int64, error) {
	chat, err := activeChat(ctx, s.queries)
	if err != nil {
		return 0, err
	}
	n, err := s.queries.CountChatMessages(ctx, chat.ID)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}

func (s *HistoryService) recent(ctx context.Context, chatID string, limit int) ([]domain.ChatMessage, error) {
	// SQLite treats a negative LIMIT as unbounded.
	if limit <= 0 {
		return []domain.ChatMessage{}, nil
	}
	rows, err := s.queries.ListRecentMessages(ctx, repository.ListRecentMessagesParams{
		ChatID: chatID,
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return rowsToMessagesChronological(rows), nil
}
