package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// Tables lists the required tables in creation order. Each has a <name>.sql
// file in the schema FS.
var Tables = []string{"chats", "chat_configs", "chat_messages", "chat_prompts"}

func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One local connection; every multi-row write goes through a single tx on it.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// InitSchema creates every required table that does not exist yet.
func InitSchema(ctx context.Context, db *sql.DB, schemaFS fs.FS) error {
	existing, err := tableNames(ctx, db)
	if err != nil {
		return err
	}

	var created []string
	for _, table := range Tables {
		if existing[table] {
			continue
		}
		ddl, err := fs.ReadFile(schemaFS, table+".sql")
		if err != nil {
			return fmt.Errorf("read ddl for %s: %w", table, err)
		}
		if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		created = append(created, table)
	}

	if len(created) > 0 {
		slog.Info("schema initialized", "created", created)
	}
	return nil
}

func tableNames(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names[name] = true
	}
	return names, rows.Err()
}
