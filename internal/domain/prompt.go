package domain

import "time"

// ChatPrompt is a reusable system prompt keyed by (Name, Version).
type ChatPrompt struct {
	Name       string
	Version    string
	Role       Role
	Content    string
	ModifiedAt time.Time
}
