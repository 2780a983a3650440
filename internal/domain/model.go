package domain

import "github.com/shopspring/decimal"

type AIModel struct {
	ID              string
	Name            string
	Description     string
	PromptPrice     decimal.Decimal // per 1M tokens
	CompletionPrice decimal.Decimal // per 1M tokens
	ContextLength   int
}

func (m *AIModel) IsFree() bool {
	return m.PromptPrice.IsZero() && m.CompletionPrice.IsZero()
}
