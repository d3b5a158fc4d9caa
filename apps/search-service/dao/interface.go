package dao

import (
	"context"
	"errors"
	"time"

	"coursehub/apps/search-service/model"
)

// ============ 错误定义 ============

var (
	// ErrDocumentNotFound 文档不存在
	ErrDocumentNotFound = errors.New("document not found")
	// ErrSearchLogNotFound 搜索日志不存在
	ErrSearchLogNotFound = errors.New("search log not found")
)

// ============ 搜索后端数据结构 ============

// BulkDocument 批量索引文档
type BulkDocument struct {
	ID       string
	Document interface{}
}

// SearchHit 后端返回的单条命中
type SearchHit struct {
	Index     string                 `json:"_index"`
	ID        string                 `json:"_id"`
	Score     float64                `json:"_score"`
	Source    map[string]interface{} `json:"_source"`
	Highlight map[string][]string    `json:"highlight,omitempty"`
}

// SearchHits 后端返回的命中集合
type SearchHits struct {
	Total struct {
		Value int64 `json:"value"`
	} `json:"total"`
	Hits []SearchHit `json:"hits"`
}

// SearchResponse 后端搜索响应
type SearchResponse struct {
	Took         int64                  `json:"took"`
	TimedOut     bool                   `json:"timed_out"`
	Hits         SearchHits             `json:"hits"`
	Aggregations map[string]interface{} `json:"aggregations,omitempty"`
}

// ============ 数据访问接口 ============

// QueryBackend 搜索后端访问接口
// 只负责执行编译好的查询体与批量写入，查询构建在service层完成
type QueryBackend interface {
	// Search 在指定索引上执行查询体
	Search(ctx context.Context, indices []string, body map[string]interface{}) (*SearchResponse, error)

	// BulkIndex 按ID批量覆盖写入文档，写入后索引立即可查
	BulkIndex(ctx context.Context, indexName string, documents []BulkDocument) error

	// EnsureIndex 确保索引存在，不存在则按映射创建
	EnsureIndex(ctx context.Context, indexName string, mapping map[string]interface{}, settings map[string]interface{}) error

	// Ping 检查后端连接
	Ping(ctx context.Context) error
}

// RecordStore 关系库只读访问接口
// 同步读取源数据行（含反规范化关联与快照计数），以及降级搜索
type RecordStore interface {
	// ============ 同步源数据分页读取 ============

	ListPosts(ctx context.Context, offset, limit int) ([]*model.PostRow, error)
	ListComments(ctx context.Context, offset, limit int) ([]*model.CommentRow, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*model.UserRecord, error)
	ListCommunities(ctx context.Context, offset, limit int) ([]*model.CommunityRecord, error)
	ListCourses(ctx context.Context, offset, limit int) ([]*model.CourseRow, error)

	// ============ 降级搜索 ============

	// SearchPostsFallback 帖子标题/正文子串匹配，communityID大于0时限定社区
	SearchPostsFallback(ctx context.Context, query string, communityID int64, offset, limit int) ([]*model.PostRow, int64, error)

	// SearchUsersFallback 用户名/姓名子串匹配
	SearchUsersFallback(ctx context.Context, query string, offset, limit int) ([]*model.UserRecord, int64, error)

	// Health 检查关系库连接
	Health(ctx context.Context) error
}

// AnalyticsStore 搜索日志存储接口，本服务是search_logs表的唯一写入方
type AnalyticsStore interface {
	// CreateSearchLog 追加一条搜索日志
	CreateSearchLog(ctx context.Context, log *model.SearchLog) error

	// RecordClick 记录点击结果，同一条日志只记录首次点击
	RecordClick(ctx context.Context, logID int64, resultID, resultType string) error

	// GetAnalytics 统计时间区间内的搜索分析报告
	GetAnalytics(ctx context.Context, from, to time.Time) (*model.SearchAnalyticsReport, error)
}
