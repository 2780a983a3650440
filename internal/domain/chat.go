package domain

import "time"

// Chat is one named conversation context. Exactly one chat is active once any exist.
type Chat struct {
	ID             string
	Name           string
	IsActive       bool
	CreatedAt      time.Time
	LastSelectedAt time.Time
}

// ChatConfig is owned 1:1 by a Chat.
type ChatConfig struct {
	ID                string
	ChatID            string
	SystemPrompt      string
	IncludeContext    bool
	ContextWindowSize int
	ModelID           string
	UpdatedAt         time.Time
}

// ChatDefaults seeds the config of a newly created chat.
type ChatDefaults struct {
	SystemPrompt      string
	ModelID           string
	ContextWindowSize int
}
