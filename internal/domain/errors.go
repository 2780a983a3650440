package domain

import "errors"

var (
	ErrChatNotFound        = errors.New("chat not found")
	ErrChatExists          = errors.New("chat already exists")
	ErrLastChat            = errors.New("cannot delete the last remaining chat")
	ErrActiveChatTarget    = errors.New("cannot delete the active chat")
	ErrNoActiveChat        = errors.New("no active chat: registry invariant violated")
	ErrConfigNotFound      = errors.New("chat config not found")
	ErrPromptNotFound      = errors.New("prompt not found")
	ErrModelNotFound       = errors.New("model not found")
	ErrInvalidWindowSize   = errors.New("context window size must be a positive integer")
	ErrInvalidChatName     = errors.New("chat name must not be blank")
	ErrEmptyQuestion       = errors.New("question must not be blank")
	ErrEmptyAnswer         = errors.New("model returned an empty answer")
	ErrIncompleteTurn      = errors.New("turn needs both a question and an answer")
	ErrInvalidHistoryCount = errors.New("history count must be a positive integer")
	ErrMissingAPIKey       = errors.New("OPENROUTER_API_KEY is not set")
)
