package repository

import (
	"context"
	"time"
)

const configColumns = `id, chat_id, system_prompt, include_context, context_window_size, model_id, updated_at`

func scanConfig(row interface{ Scan(...any) error }) (ChatConfig, error) {
	var c ChatConfig
	err := row.Scan(&c.ID, &c.ChatID, &c.SystemPrompt, &c.IncludeContext, &c.ContextWindowSize, &c.ModelID, &c.UpdatedAt)
	return c, err
}

type CreateChatConfigParams struct {
	ID                string
	ChatID            string
	SystemPrompt      string
	IncludeContext    bool
	ContextWindowSize int64
	ModelID           string
	UpdatedAt         time.Time
}

func (q *Queries) CreateChatConfig(ctx context.Context, arg CreateChatConfigParams) (ChatConfig, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO chat_configs (id, chat_id, system_prompt, include_context, context_window_size, model_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.ChatID, arg.SystemPrompt, arg.IncludeContext, arg.ContextWindowSize, arg.ModelID, arg.UpdatedAt)
	if err != nil {
		return ChatConfig{}, err
	}
	return q.GetChatConfig(ctx, arg.ChatID)
}

func (q *Queries) GetChatConfig(ctx context.Context, chatID string) (ChatConfig, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+configColumns+` FROM chat_configs WHERE chat_id = ?`, chatID)
	return scanConfig(row)
}

func (q *Queries) CountChatConfigs(ctx context.Context, chatID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_configs WHERE chat_id = ?`, chatID).Scan(&n)
	return n, err
}

func (q *Queries) DeleteChatConfig(ctx context.Context, chatID string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM chat_configs WHERE chat_id = ?`, chatID)
	return err
}

// The setters below report affected rows so callers can detect a missing config.

type UpdateSystemPromptParams struct {
	ChatID       string
	SystemPrompt string
	UpdatedAt    time.Time
}

func (q *Queries) UpdateSystemPrompt(ctx context.Context, arg UpdateSystemPromptParams) (int64, error) {
	return q.execAffected(ctx,
		`UPDATE chat_configs SET system_prompt = ?, updated_at = ? WHERE chat_id = ?`,
		arg.SystemPrompt, arg.UpdatedAt, arg.ChatID)
}

type UpdateContextWindowSizeParams struct {
	ChatID            string
	ContextWindowSize int64
	UpdatedAt         time.Time
}

func (q *Queries) UpdateContextWindowSize(ctx context.Context, arg UpdateContextWindowSizeParams) (int64, error) {
	return q.execAffected(ctx,
		`UPDATE chat_configs SET context_window_size = ?, updated_at = ? WHERE chat_id = ?`,
		arg.ContextWindowSize, arg.UpdatedAt, arg.ChatID)
}

type UpdateModelParams struct {
	ChatID    string
	ModelID   string
	UpdatedAt time.Time
}

func (q *Queries) UpdateModel(ctx context.Context, arg UpdateModelParams) (int64, error) {
	return q.execAffected(ctx,
		`UPDATE chat_configs SET model_id = ?, updated_at = ? WHERE chat_id = ?`,
		arg.ModelID, arg.UpdatedAt, arg.ChatID)
}

type ToggleIncludeContextParams struct {
	ChatID    string
	UpdatedAt time.Time
}

func (q *Queries) ToggleIncludeContext(ctx context.Context, arg ToggleIncludeContextParams) (int64, error) {
	return q.execAffected(ctx,
		`UPDATE chat_configs SET include_context = NOT include_context, updated_at = ? WHERE chat_id = ?`,
		arg.UpdatedAt, arg.ChatID)
}

func (q *Queries) execAffected(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
