package service

import (
	"sync"
	"time"

	"github.com/set-night/mindcli/internal/domain"
)

// ModelsCache keeps the provider catalog for ttl and indexes it by id.
type ModelsCache struct {
	mu       sync.RWMutex
	models   []domain.AIModel
	byID     map[string]int
	cachedAt time.Time
	ttl      time.Duration
}

func NewModelsCache(ttl time.Duration) *ModelsCache {
	return &ModelsCache{ttl: ttl}
}

func (c *ModelsCache) Get() []domain.AIModel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fresh() {
		return nil
	}
	return c.models
}

// Find returns a cached model by id. ok is false on a miss or a stale cache.
func (c *ModelsCache) Find(id string) (model domain.AIModel, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.fresh() {
		return domain.AIModel{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return domain.AIModel{}, false
	}
	return c.models[i], true
}

func (c *ModelsCache) Set(models []domain.AIModel) {
	index := make(map[string]int, len(models))
	for i, m := range models {
		index[m.ID] = i
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = models
	c.byID = index
	c.cachedAt = time.Now()
}

func (c *ModelsCache) fresh() bool {
	return c.models != nil && time.Since(c.cachedAt) <= c.ttl
}
