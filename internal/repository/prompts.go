package repository

import (
	"context"
	"time"
)

const promptColumns = `name, version, role, content, modified_at`

type GetChatPromptParams struct {
	Name    string
	Version string
}

func (q *Queries) GetChatPrompt(ctx context.Context, arg GetChatPromptParams) (ChatPrompt, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM chat_prompts WHERE name = ? AND version = ?`,
		arg.Name, arg.Version)
	var p ChatPrompt
	err := row.Scan(&p.Name, &p.Version, &p.Role, &p.Content, &p.ModifiedAt)
	return p, err
}

// GetLatestChatPrompt returns the most recently modified version of name.
func (q *Queries) GetLatestChatPrompt(ctx context.Context, name string) (ChatPrompt, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM chat_prompts WHERE name = ? ORDER BY modified_at DESC LIMIT 1`,
		name)
	var p ChatPrompt
	err := row.Scan(&p.Name, &p.Version, &p.Role, &p.Content, &p.ModifiedAt)
	return p, err
}

type CreateChatPromptParams struct {
	Name       string
	Version    string
	Role       string
	Content    string
	ModifiedAt time.Time
}

func (q *Queries) CreateChatPrompt(ctx context.Context, arg CreateChatPromptParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO chat_prompts (name, version, role, content, modified_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Name, arg.Version, arg.Role, arg.Content, arg.ModifiedAt)
	return err
}

type UpdateChatPromptParams struct {
	Name       string
	Version    string
	Content    string
	ModifiedAt time.Time
}

func (q *Queries) UpdateChatPrompt(ctx context.Context, arg UpdateChatPromptParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE chat_prompts SET content = ?, modified_at = ? WHERE name = ? AND version = ?`,
		arg.Content, arg.ModifiedAt, arg.Name, arg.Version)
	return err
}

// SearchChatPrompts matches name case-insensitively as a substring.
func (q *Queries) SearchChatPrompts(ctx context.Context, pattern string) ([]ChatPrompt, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM chat_prompts WHERE instr(lower(name), lower(?)) > 0`,
		pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ChatPrompt
	for rows.Next() {
		var p ChatPrompt
		if err := rows.Scan(&p.Name, &p.Version, &p.Role, &p.Content, &p.ModifiedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (q *Queries) DeleteChatPrompt(ctx context.Context, arg GetChatPromptParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM chat_prompts WHERE name = ? AND version = ?`, arg.Name, arg.Version)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
