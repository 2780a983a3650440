package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/set-night/mindcli/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelsJSON = `{"data":[
	{"id":"openai/gpt-4o-mini","name":"GPT-4o mini","pricing":{"prompt":"0.00000015","completion":"0.0000006"},"context_length":128000},
	{"id":"free/model:free","name":"Free","pricing":{"prompt":"0","completion":"0"},"context_length":8192,"top_provider":{"context_length":32768}},
	{"id":"odd/pricing","name":"Odd","pricing":{"prompt":"n/a","completion":""},"context_length":4096}
]}`

func TestDecodeModels(t *testing.T) {
	models, err := decodeModels(strings.NewReader(modelsJSON))
	require.NoError(t, err)
	require.Len(t, models, 3)

	mini := models[0]
	assert.True(t, mini.PromptPrice.Equal(decimal.RequireFromString("0.15")))
	assert.True(t, mini.CompletionPrice.Equal(decimal.RequireFromString("0.6")))
	assert.False(t, mini.IsFree())

	free := models[1]
	assert.True(t, free.IsFree())
	assert.Equal(t, 32768, free.ContextLength)

	odd := models[2]
	assert.True(t, odd.PromptPrice.IsZero())
	assert.Equal(t, 4096, odd.ContextLength)

	_, err = decodeModels(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestOpenRouterService_ListModelsCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(modelsJSON))
	}))
	defer srv.Close()

	s := NewOpenRouterService("sk-test", srv.URL+"/")
	ctx := context.Background()

	models, err := s.ListModels(ctx)
	require.NoError(t, err)
	assert.Len(t, models, 3)

	m, err := s.GetModel(ctx, "free/model:free")
	require.NoError(t, err)
	assert.Equal(t, "Free", m.Name)

	_, err = s.GetModel(ctx, "missing/model")
	assert.ErrorIs(t, err, domain.ErrModelNotFound)

	// Lookups, including misses, are served from the fresh cache.
	assert.Equal(t, int32(1), hits.Load())
}

func TestOpenRouterService_ListModelsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewOpenRouterService("", srv.URL).ListModels(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestOpenRouterService_CompleteRequiresKey(t *testing.T) {
	s := NewOpenRouterService("", "http://127.0.0.1:0")

	_, err := s.Complete(context.Background(), CompletionRequest{Model: "m"})
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestModelsCache(t *testing.T) {
	c := NewModelsCache(time.Hour)
	assert.Nil(t, c.Get())

	c.Set([]domain.AIModel{{ID: "a"}, {ID: "b"}})
	assert.Len(t, c.Get(), 2)

	m, ok := c.Find("b")
	require.True(t, ok)
	assert.Equal(t, "b", m.ID)

	_, ok = c.Find("c")
	assert.False(t, ok)

	stale := NewModelsCache(0)
	stale.Set([]domain.AIModel{{ID: "a"}})
	time.Sleep(time.Millisecond)
	assert.Nil(t, stale.Get())
	_, ok = stale.Find("a")
	assert.False(t, ok)
}
