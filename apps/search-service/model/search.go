package model

// ============ 搜索请求和响应模型 ============

// ProximityQuery 邻近搜索参数
// 各词在Distance个token距离内出现即命中，顺序不限
type ProximityQuery struct {
	Terms    []string `json:"terms"`
	Distance int      `json:"distance"`
}

// SearchRequest 通用搜索请求
type SearchRequest struct {
	Query          string          `json:"query"`
	Type           string          `json:"type"` // posts/comments/users/communities/courses/all
	Page           int             `json:"page"`
	Limit          int             `json:"limit"`
	SortField      string          `json:"sort_field,omitempty"`
	SortOrder      string          `json:"sort_order,omitempty"` // asc/desc
	Filters        []Filter        `json:"-"`
	SearchFields   []string        `json:"search_fields,omitempty"` // 带权重字段，如 title^3
	SearchOperator string          `json:"search_operator,omitempty"`
	PhraseSearch   bool            `json:"phrase_search,omitempty"`
	Proximity      *ProximityQuery `json:"proximity_search,omitempty"`
	UserID         int64           `json:"-"` // 调用方身份，仅用于分析日志
}

// Normalize 规范化分页、类型与操作符，返回规范化后的请求本身
func (r *SearchRequest) Normalize(defaultLimit, maxLimit int) {
	if r.Type == "" {
		r.Type = SearchTypeAll
	}
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	if r.SortOrder != SortOrderAsc {
		r.SortOrder = SortOrderDesc
	}
	if r.SearchOperator != SearchOperatorAnd {
		r.SearchOperator = SearchOperatorOr
	}
}

// Offset 1-based分页转0-based偏移
func (r *SearchRequest) Offset() int {
	return (r.Page - 1) * r.Limit
}

// ResultHit 单条搜索结果
type ResultHit struct {
	ID        string                 `json:"id"`
	Index     string                 `json:"index"`
	Type      string                 `json:"type"`
	Score     float64                `json:"score"`
	Source    map[string]interface{} `json:"source"`
	Highlight map[string][]string    `json:"highlight,omitempty"`
}

// FacetBucket 聚合桶
type FacetBucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// SearchResult 搜索结果集
// Page和Limit回显规范化后的分页参数，相似内容查询不分页故省略
type SearchResult struct {
	Hits         []*ResultHit             `json:"hits"`
	Total        int64                    `json:"total"`
	Aggregations map[string][]FacetBucket `json:"aggregations,omitempty"`
	Page         int                      `json:"page,omitempty"`
	Limit        int                      `json:"limit,omitempty"`
	TookMs       int64                    `json:"took_ms"`
}

// ============ 搜索建议模型 ============

// Suggestion 自动完成建议项
type Suggestion struct {
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

// ============ 相似内容模型 ============

// SimilarRequest 相似内容查询请求
type SimilarRequest struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	MaxResults int    `json:"max_results"`
}
