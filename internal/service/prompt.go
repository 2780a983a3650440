package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/set-night/mindcli/internal/domain"
	"github.com/set-night/mindcli/internal/repository"
)

// PromptService is the versioned system prompt library. It is independent of chats.
type PromptService struct {
	db      *sql.DB
	queries *repository.Queries
}

func NewPromptService(db *sql.DB, queries *repository.Queries) *PromptService {
	return &PromptService{db: db, queries: queries}
}

// Publish stores content under (name, version), replacing the content of an
// existing entry. created reports whether a new row was inserted.
func (s *PromptService) Publish(ctx context.Context, name, version, content string) (prompt *domain.ChatPrompt, created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	ts := now()

	key := repository.GetChatPromptParams{Name: name, Version: version}
	_, err = qtx.GetChatPrompt(ctx, key)
	switch {
	case err == nil:
		if err := qtx.UpdateChatPrompt(ctx, repository.UpdateChatPromptParams{
			Name:       name,
			Version:    version,
			Content:    content,
			ModifiedAt: ts,
		}); err != nil {
			return nil, false, fmt.Errorf("update prompt: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		if err := qtx.CreateChatPrompt(ctx, repository.CreateChatPromptParams{
			Name:       name,
			Version:    version,
			Role:       string(domain.RoleSystem),
			Content:    content,
			ModifiedAt: ts,
		}); err != nil {
			return nil, false, fmt.Errorf("create prompt: %w", err)
		}
		created = true
	default:
		return nil, false, fmt.Errorf("get prompt: %w", err)
	}

	row, err := qtx.GetChatPrompt(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("reload prompt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return rowToPrompt(row), created, nil
}

// Search returns prompts whose name contains pattern, best fuzzy match first.
// A non-empty version restricts the result to the exact (pattern, version) entry.
// No match is an empty result, not an error.
func (s *PromptService) Search(ctx context.Context, pattern, version string) ([]domain.ChatPrompt, error) {
	if version != "" {
		p, err := s.Get(ctx, pattern, version)
		if errors.Is(err, domain.ErrPromptNotFound) {
			return []domain.ChatPrompt{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []domain.ChatPrompt{*p}, nil
	}

	rows, err := s.queries.SearchChatPrompts(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("search prompts: %w", err)
	}

	prompts := make([]domain.ChatPrompt, len(rows))
	for i, r := range rows {
		prompts[i] = *rowToPrompt(r)
	}
	rankPrompts(prompts, pattern)
	return prompts, nil
}

// Get looks up one prompt. An empty version selects the most recently modified one.
func (s *PromptService) Get(ctx context.Context, name, version string) (*domain.ChatPrompt, error) {
	var (
		row repository.ChatPrompt
		err error
	)
	if version == "" {
		row, err = s.queries.GetLatestChatPrompt(ctx, name)
	} else {
		row, err = s.queries.GetChatPrompt(ctx, repository.GetChatPromptParams{Name: name, Version: version})
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return rowToPrompt(row), nil
}

func (s *PromptService) Delete(ctx context.Context, name, version string) error {
	n, err := s.queries.DeleteChatPrompt(ctx, repository.GetChatPromptParams{Name: name, Version: version})
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if n == 0 {
		return domain.ErrPromptNotFound
	}
	return nil
}

func rankPrompts(prompts []domain.ChatPrompt, pattern string) {
	slices.SortStableFunc(prompts, func(a, b domain.ChatPrompt) int {
		return cmp.Or(
			cmp.Compare(rank(pattern, a.Name), rank(pattern, b.Name)),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Version, b.Version),
		)
	})
}

// rank is the edit distance between pattern and name; names that do not
// fuzzy-match sort last.
func rank(pattern, name string) int {
	r := fuzzy.RankMatchFold(pattern, name)
	if r < 0 {
		return int(^uint(0) >> 1)
	}
	return r
}
