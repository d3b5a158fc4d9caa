package service

import (
	"context"
	"encoding/json"
	"time"

	"coursehub/apps/search-service/model"
	"coursehub/pkg/logger"
	"coursehub/pkg/redis"
)

// ============ 建议缓存 ============

// redisCacheService Redis建议缓存实现
// 缓存读写失败一律当作未命中，不影响建议主流程
type redisCacheService struct {
	client *redis.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisCacheService 创建Redis建议缓存实例
func NewRedisCacheService(client *redis.RedisClient, ttl time.Duration, log logger.Logger) CacheService {
	if ttl <= 0 {
		ttl = DefaultServiceConfig().SuggestCacheTTL
	}

	return &redisCacheService{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

// GetSuggestions 读取缓存的建议列表
func (c *redisCacheService) GetSuggestions(ctx context.Context, key string) ([]model.Suggestion, bool) {
	data, err := c.client.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var suggestions []model.Suggestion
	if err := json.Unmarshal([]byte(data), &suggestions); err != nil {
		c.logger.Warn(ctx, "Failed to decode cached suggestions",
			logger.F("key", key),
			logger.F("error", err.Error()))
		return nil, false
	}

	return suggestions, true
}

// SetSuggestions 写入建议列表缓存
func (c *redisCacheService) SetSuggestions(ctx context.Context, key string, suggestions []model.Suggestion) {
	data, err := json.Marshal(suggestions)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.Warn(ctx, "Failed to cache suggestions",
			logger.F("key", key),
			logger.F("error", err.Error()))
	}
}

// noopCacheService 空缓存实现，Redis未启用时使用
type noopCacheService struct{}

// NewNoopCacheService 创建空缓存实例
func NewNoopCacheService() CacheService {
	return &noopCacheService{}
}

// GetSuggestions 永远未命中
func (c *noopCacheService) GetSuggestions(ctx context.Context, key string) ([]model.Suggestion, bool) {
	return nil, false
}

// SetSuggestions 空操作
func (c *noopCacheService) SetSuggestions(ctx context.Context, key string, suggestions []model.Suggestion) {
}
