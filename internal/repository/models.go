package repository

import "time"

type Chat struct {
	ID             string
	Name           string
	IsActive       bool
	CreatedAt      time.Time
	LastSelectedAt time.Time
}

type ChatConfig struct {
	ID                string
	ChatID            string
	SystemPrompt      string
	IncludeContext    bool
	ContextWindowSize int64
	ModelID           string
	UpdatedAt         time.Time
}

type ChatMessage struct {
	ID        string
	ChatID    string
	Role      string
	Content   string
	PairKey   string
	CreatedAt time.Time
}

type ChatPrompt struct {
	Name       string
	Version    string
	Role       string
	Content    string
	ModifiedAt time.Time
}
