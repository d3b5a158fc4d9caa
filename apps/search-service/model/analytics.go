package model

import (
	"time"
)

// ============ 搜索日志模型 ============

// SearchLog 搜索日志
// 查询时创建一次，点击时至多更新一次，本服务不删除
type SearchLog struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID            *int64    `json:"user_id,omitempty" gorm:"index"`
	Query             string    `json:"query" gorm:"type:text;not null"`
	SearchType        string    `json:"search_type" gorm:"type:varchar(50);not null;index"`
	Filters           string    `json:"filters" gorm:"type:text"` // 请求过滤条件的JSON快照
	Page              int       `json:"page" gorm:"default:1"`
	ResultsCount      int       `json:"results_count" gorm:"default:0"`
	TookMs            int64     `json:"took_ms" gorm:"default:0"`
	ClickedResultID   string    `json:"clicked_result_id" gorm:"type:varchar(100)"`
	ClickedResultType string    `json:"clicked_result_type" gorm:"type:varchar(50)"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName 表名
func (SearchLog) TableName() string {
	return "search_logs"
}

// ============ 搜索分析模型 ============

// QueryStat 查询词统计
type QueryStat struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// SearchAnalyticsReport 时间区间内的搜索分析报告
type SearchAnalyticsReport struct {
	From               time.Time   `json:"from"`
	To                 time.Time   `json:"to"`
	TotalSearches      int64       `json:"total_searches"`
	ClickedSearches    int64       `json:"clicked_searches"`
	ClickThroughRate   float64     `json:"click_through_rate"`
	ZeroResultSearches int64       `json:"zero_result_searches"`
	AvgTookMs          float64     `json:"avg_took_ms"`
	TopQueries         []QueryStat `json:"top_queries"`
}
