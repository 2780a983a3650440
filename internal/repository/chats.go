package repository

import (
	"context"
	"time"
)

const chatColumns = `id, name, is_active, created_at, last_selected_at`

func scanChat(row interface{ Scan(...any) error }) (Chat, error) {
	var c Chat
	err := row.Scan(&c.ID, &c.Name, &c.IsActive, &c.CreatedAt, &c.LastSelectedAt)
	return c, err
}

type CreateChatParams struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// CreateChat inserts an active chat. Callers deactivate the previous one in the same tx.
func (q *Queries) CreateChat(ctx context.Context, arg CreateChatParams) (Chat, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO chats (id, name, is_active, created_at, last_selected_at) VALUES (?, ?, 1, ?, ?)`,
		arg.ID, arg.Name, arg.CreatedAt, arg.CreatedAt)
	if err != nil {
		return Chat{}, err
	}
	return q.GetChatByID(ctx, arg.ID)
}

func (q *Queries) GetChatByID(ctx context.Context, id string) (Chat, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = ?`, id)
	return scanChat(row)
}

func (q *Queries) GetChatByName(ctx context.Context, name string) (Chat, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE name = ?`, name)
	return scanChat(row)
}

func (q *Queries) GetActiveChat(ctx context.Context) (Chat, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE is_active = 1 LIMIT 1`)
	return scanChat(row)
}

func (q *Queries) ListChats(ctx context.Context) ([]Chat, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+chatColumns+` FROM chats`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Chat
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (q *Queries) CountChats(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats`).Scan(&n)
	return n, err
}

func (q *Queries) CountActiveChats(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats WHERE is_active = 1`).Scan(&n)
	return n, err
}

// DeactivateChats clears the flag on every chat except keepID.
func (q *Queries) DeactivateChats(ctx context.Context, keepID string) error {
	_, err := q.db.ExecContext(ctx, `UPDATE chats SET is_active = 0 WHERE is_active = 1 AND id <> ?`, keepID)
	return err
}

type ActivateChatParams struct {
	ID         string
	SelectedAt time.Time
}

func (q *Queries) ActivateChat(ctx context.Context, arg ActivateChatParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE chats SET is_active = 1, last_selected_at = ? WHERE id = ?`,
		arg.SelectedAt, arg.ID)
	return err
}

type RenameChatParams struct {
	ID   string
	Name string
}

func (q *Queries) RenameChat(ctx context.Context, arg RenameChatParams) error {
	_, err := q.db.ExecContext(ctx, `UPDATE chats SET name = ? WHERE id = ?`, arg.Name, arg.ID)
	return err
}

func (q *Queries) DeleteChat(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM chats WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
