package service

import (
	"context"
	"testing"

	"github.com/set-night/mindcli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptNames(prompts []domain.ChatPrompt) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = p.Name + "@" + p.Version
	}
	return out
}

func TestPromptService_PublishUpserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, created, err := s.prompts.Publish(ctx, "reviewer", "v1", "Review code.")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleSystem, p.Role)

	p, created, err = s.prompts.Publish(ctx, "reviewer", "v1", "Review code strictly.")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Review code strictly.", p.Content)

	all, err := s.prompts.Search(ctx, "reviewer", "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPromptService_SearchRanking(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, name := range []string{"code-reviewer", "reviewer", "Review", "translator"} {
		_, _, err := s.prompts.Publish(ctx, name, "v1", "text")
		require.NoError(t, err)
	}
	_, _, err := s.prompts.Publish(ctx, "reviewer", "v2", "text")
	require.NoError(t, err)

	got, err := s.prompts.Search(ctx, "rev", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Review@v1", "reviewer@v1", "reviewer@v2", "code-reviewer@v1"}, promptNames(got))

	got, err = s.prompts.Search(ctx, "zzz", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPromptService_SearchWithVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, v := range []string{"v1", "v2"} {
		_, _, err := s.prompts.Publish(ctx, "reviewer", v, "text "+v)
		require.NoError(t, err)
	}

	got, err := s.prompts.Search(ctx, "reviewer", "v2")
	require.NoError(t, err)
	assert.Equal(t, []string{"reviewer@v2"}, promptNames(got))

	got, err = s.prompts.Search(ctx, "reviewer", "v9")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPromptService_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, _, err := s.prompts.Publish(ctx, "reviewer", "v1", "old")
	require.NoError(t, err)
	_, _, err = s.prompts.Publish(ctx, "reviewer", "v2", "new")
	require.NoError(t, err)

	latest, err := s.prompts.Get(ctx, "reviewer", "")
	require.NoError(t, err)
	assert.Equal(t, "v2", latest.Version)

	p, err := s.prompts.Get(ctx, "reviewer", "v1")
	require.NoError(t, err)
	assert.Equal(t, "old", p.Content)

	require.NoError(t, s.prompts.Delete(ctx, "reviewer", "v1"))
	_, err = s.prompts.Get(ctx, "reviewer", "v1")
	assert.ErrorIs(t, err, domain.ErrPromptNotFound)
	assert.ErrorIs(t, s.prompts.Delete(ctx, "reviewer", "v1"), domain.ErrPromptNotFound)
}
