package repository

import (
	"context"
	"time"
)

const messageColumns = `id, chat_id, role, content, pair_key, created_at`

type CreateChatMessageParams struct {
	ID        string
	ChatID    string
	Role      string
	Content   string
	PairKey   string
	CreatedAt time.Time
}

func (q *Queries) CreateChatMessage(ctx context.Context, arg CreateChatMessageParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, chat_id, role, content, pair_key, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		arg.ID, arg.ChatID, arg.Role, arg.Content, arg.PairKey, arg.CreatedAt)
	return err
}

type ListRecentMessagesParams struct {
	ChatID string
	Limit  int64
}

// ListRecentMessages returns the newest Limit messages, newest first.
func (q *Queries) ListRecentMessages(ctx context.Context, arg ListRecentMessagesParams) ([]ChatMessage, error) {
	return q.listMessages(ctx,
		`SELECT `+messageColumns+` FROM chat_messages
		 WHERE chat_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		arg.ChatID, arg.Limit)
}

func (q *Queries) ListMessagesByPairKey(ctx context.Context, pairKey string) ([]ChatMessage, error) {
	return q.listMessages(ctx,
		`SELECT `+messageColumns+` FROM chat_messages WHERE pair_key = ? ORDER BY rowid`,
		pairKey)
}

func (q *Queries) CountChatMessages(ctx context.Context, chatID string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_messages WHERE chat_id = ?`, chatID).Scan(&n)
	return n, err
}

func (q *Queries) DeleteChatMessages(ctx context.Context, chatID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE chat_id = ?`, chatID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) listMessages(ctx context.Context, query string, args ...interface{}) ([]ChatMessage, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.ChatID, &m.Role, &m.Content, &m.PairKey, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
