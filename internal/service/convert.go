package service

import (
	"time"

	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/repository"
)

// now returns the timestamp stamped on every write. UTC keeps stored text sortable.
func now() time.Time {
	return time.Now().UTC()
}

func rowToChat(row repository.Chat) *domain.Chat {
	return &domain.Chat{
		ID:             row.ID,
		Name:           row.Name,
		IsActive:       row.IsActive,
		CreatedAt:      row.CreatedAt,
		LastSelectedAt: row.LastSelectedAt,
	}
}

func rowToConfig(row repository.ChatConfig) *domain.ChatConfig {
	return &domain.ChatConfig{
		ID:                row.ID,
		ChatID:            row.ChatID,
		SystemPrompt:      row.SystemPrompt,
		IncludeContext:    row.IncludeContext,
		ContextWindowSize: int(row.ContextWindowSize),
		ModelID:           row.ModelID,
		UpdatedAt:         row.UpdatedAt,
	}
}

func rowToMessage(row repository.ChatMessage) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        row.ID,
		ChatID:    row.ChatID,
		Role:      domain.Role(row.Role),
		Content:   row.Content,
		PairKey:   row.PairKey,
		CreatedAt: row.CreatedAt,
	}
}

// rowsToMessagesChronological converts a newest-first slice into oldest-first order.
func rowsToMessagesChronological(rows []repository.ChatMessage) []domain.ChatMessage {
	msgs := make([]domain.ChatMessage, len(rows))
	for i, r := range rows {
		msgs[len(rows)-1-i] = rowToMessage(r)
	}
	return msgs
}

func rowToPrompt(row repository.ChatPrompt) *domain.ChatPrompt {
	return &domain.ChatPrompt{
		Name:       row.Name,
		Version:    row.Version,
		Role:       domain.Role(row.Role),
		Content:    row.Content,
		ModifiedAt: row.ModifiedAt,
	}
}
