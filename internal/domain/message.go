package domain

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single persisted utterance. User and assistant rows of one
// exchange share a PairKey.
type ChatMessage struct {
	ID        string
	ChatID    string
	Role      Role
	Content   string
	PairKey   string
	CreatedAt time.Time
}

// Message is a role-tagged entry sent to the completion capability.
type Message struct {
	Role    Role
	Content string
}
