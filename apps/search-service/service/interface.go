package service

import (
	"context"
	"errors"
	"time"

	"coursehub/apps/search-service/model"
)

// ============ 错误定义 ============

var (
	// ErrUnsupportedSearchType 不支持的内容类型，属于调用方错误
	ErrUnsupportedSearchType = errors.New("unsupported search type")
)

// ============ 服务接口 ============

// SearchService 搜索服务接口
type SearchService interface {
	// Search 通用搜索，后端不可用时自动降级到关系库
	Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error)

	// Suggest 前缀自动完成建议，前缀过短时直接返回空列表
	Suggest(ctx context.Context, searchType, prefix, field string, size int) ([]model.Suggestion, error)

	// FindSimilar 相似内容查询
	FindSimilar(ctx context.Context, req *model.SimilarRequest) (*model.SearchResult, error)
}

// SyncService 索引同步服务接口
type SyncService interface {
	// SyncAll 依次重建全部内容类型，任一类型失败则中止后续
	SyncAll(ctx context.Context) error

	// SyncIndex 重建单个内容类型
	SyncIndex(ctx context.Context, searchType string) error

	// EnsureIndices 确保全部索引存在
	EnsureIndices(ctx context.Context) error

	// HealthCheck 检查搜索后端与关系库连接
	HealthCheck(ctx context.Context) error
}

// AnalyticsService 搜索分析服务接口
type AnalyticsService interface {
	// Start 启动后台写入
	Start()

	// Stop 停止后台写入并排空队列
	Stop()

	// LogSearch 非阻塞入队一条搜索日志，队列满则丢弃
	LogSearch(log *model.SearchLog)

	// LogClick 记录结果点击
	LogClick(ctx context.Context, logID int64, resultID, resultType string) error

	// GetAnalytics 统计时间区间内的搜索分析报告
	GetAnalytics(ctx context.Context, from, to time.Time) (*model.SearchAnalyticsReport, error)
}

// CacheService 建议缓存接口
type CacheService interface {
	// GetSuggestions 读取缓存的建议列表，未命中返回false
	GetSuggestions(ctx context.Context, key string) ([]model.Suggestion, bool)

	// SetSuggestions 写入建议列表缓存
	SetSuggestions(ctx context.Context, key string, suggestions []model.Suggestion)
}

// EventService 搜索/索引事件发布接口，仅用于上报，失败不影响主流程
type EventService interface {
	// PublishSearchEvent 发布搜索事件
	PublishSearchEvent(ctx context.Context, event *SearchEvent) error

	// PublishIndexEvent 发布索引事件
	PublishIndexEvent(ctx context.Context, event *IndexEvent) error
}

// SearchEvent 搜索事件
type SearchEvent struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
	Total      int64  `json:"total"`
	TookMs     int64  `json:"took_ms"`
	Fallback   bool   `json:"fallback"`
	Timestamp  int64  `json:"timestamp"`
	Source     string `json:"source"`
}

// IndexEvent 索引事件
type IndexEvent struct {
	Action    string `json:"action"`
	IndexName string `json:"index_name"`
	Documents int    `json:"documents"`
	Timestamp int64  `json:"timestamp"`
	Source    string `json:"source"`
}

// ============ 服务配置 ============

// ServiceConfig 搜索服务配置
type ServiceConfig struct {
	DefaultPageSize  int
	MaxPageSize      int
	SuggestMinPrefix int
	SuggestSize      int
	SuggestCacheTTL  time.Duration
	SimilarMaxSize   int
	HighlightPreTag  string
	HighlightPostTag string
	// 时效加权：近7天/近30天文档的加分系数，按部署可调
	RecencyBoost7d  float64
	RecencyBoost30d float64
	SyncBatchSize   int
	AnalyticsQueue  int
}

// DefaultServiceConfig 默认服务配置
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		DefaultPageSize:  20,
		MaxPageSize:      100,
		SuggestMinPrefix: 2,
		SuggestSize:      10,
		SuggestCacheTTL:  10 * time.Minute,
		SimilarMaxSize:   10,
		HighlightPreTag:  "<em>",
		HighlightPostTag: "</em>",
		RecencyBoost7d:   2.0,
		RecencyBoost30d:  1.5,
		SyncBatchSize:    500,
		AnalyticsQueue:   1024,
	}
}
