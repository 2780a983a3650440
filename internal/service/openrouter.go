package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	openrouter "github.com/revrost/go-openrouter"
	"github.com/set-night/mindcli/internal/config"
	"github.com/set-night/mindcli/internal/domain"
	"github.com/shopspring/decimal"
)

// CompletionRequest is one call to the chat completion capability. A non-nil
// OnDelta switches to streaming; the full text is returned either way.
type CompletionRequest struct {
	Model    string
	Messages []domain.Message
	OnDelta  func(string)
}

// Completer is the boundary to the language model.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ModelCatalog resolves model ids known to the provider.
type ModelCatalog interface {
	GetModel(ctx context.Context, modelID string) (*domain.AIModel, error)
}

type OpenRouterService struct {
	apiKey     string
	baseURL    string
	client     *openrouter.Client
	httpClient *http.Client
	cache      *ModelsCache
}

func NewOpenRouterService(apiKey, baseURL string) *OpenRouterService {
	return &OpenRouterService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: openrouter.NewClient(apiKey,
			openrouter.WithXTitle("mind"),
			openrouter.WithHTTPReferer("https://github.com/set-night/mindcli"),
		),
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		cache:      NewModelsCache(config.ModelCacheDuration),
	}
}

func (s *OpenRouterService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if s.apiKey == "" {
		return "", domain.ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, config.RequestTimeout)
	defer cancel()

	chatReq := openrouter.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenRouterMessages(req.Messages),
	}

	if req.OnDelta == nil {
		resp, err := s.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return "", fmt.Errorf("chat request: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat request: empty response from %s", req.Model)
		}
		return resp.Choices[0].Message.Content.Text, nil
	}

	chatReq.Stream = true
	stream, err := s.client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat stream: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read stream: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			full.WriteString(delta)
			req.OnDelta(delta)
		}
	}
	return full.String(), nil
}

func toOpenRouterMessages(msgs []domain.Message) []openrouter.ChatCompletionMessage {
	out := make([]openrouter.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, openrouter.ChatCompletionMessage{
			Role:    openRouterRole(m.Role),
			Content: openrouter.Content{Text: m.Content},
		})
	}
	return out
}

func openRouterRole(role domain.Role) string {
	switch role {
	case domain.RoleSystem:
		return openrouter.ChatMessageRoleSystem
	case domain.RoleAssistant:
		return openrouter.ChatMessageRoleAssistant
	default:
		return openrouter.ChatMessageRoleUser
	}
}

// ListModels fetches the public model catalog. Results are cached.
func (s *OpenRouterService) ListModels(ctx context.Context) ([]domain.AIModel, error) {
	if cached := s.cache.Get(); cached != nil {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch models: unexpected status %d", resp.StatusCode)
	}

	models, err := decodeModels(resp.Body)
	if err != nil {
		return nil, err
	}

	s.cache.Set(models)
	return models, nil
}

var perMillion = decimal.NewFromInt(1_000_000)

func decodeModels(r io.Reader) ([]domain.AIModel, error) {
	var result struct {
		Data []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			Pricing     struct {
				Prompt     string `json:"prompt"`
				Completion string `json:"completion"`
			} `json:"pricing"`
			ContextLength int `json:"context_length"`
			TopProvider   struct {
				ContextLength int `json:"context_length"`
			} `json:"top_provider"`
		} `json:"data"`
	}

	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	models := make([]domain.AIModel, 0, len(result.Data))
	for _, m := range result.Data {
		ctxLen := m.ContextLength
		if m.TopProvider.ContextLength > 0 {
			ctxLen = m.TopProvider.ContextLength
		}
		models = append(models, domain.AIModel{
			ID:          m.ID,
			Name:        m.Name,
			Description: m.Description,
			// Prices are quoted per token.
			PromptPrice:     parsePrice(m.Pricing.Prompt).Mul(perMillion),
			CompletionPrice: parsePrice(m.Pricing.Completion).Mul(perMillion),
			ContextLength:   ctxLen,
		})
	}
	return models, nil
}

func parsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (s *OpenRouterService) GetModel(ctx context.Context, modelID string) (*domain.AIModel, error) {
	if m, ok := s.cache.Find(modelID); ok {
		return &m, nil
	}
	if _, err := s.ListModels(ctx); err != nil {
		return nil, err
	}
	if m, ok := s.cache.Find(modelID); ok {
		return &m, nil
	}
	return nil, domain.ErrModelNotFound
}
