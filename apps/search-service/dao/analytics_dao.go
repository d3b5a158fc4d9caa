package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"coursehub/apps/search-service/model"
	"coursehub/pkg/database"
	"coursehub/pkg/logger"
)

// analyticsDAO 搜索日志存储实现
type analyticsDAO struct {
	db     *database.PostgreSQL
	logger logger.Logger
}

// NewAnalyticsDAO 创建搜索日志存储实例
func NewAnalyticsDAO(db *database.PostgreSQL, log logger.Logger) AnalyticsStore {
	return &analyticsDAO{
		db:     db,
		logger: log,
	}
}

// ============ 搜索日志写入 ============

// CreateSearchLog 追加一条搜索日志
func (d *analyticsDAO) CreateSearchLog(ctx context.Context, log *model.SearchLog) error {
	db := d.db.GetDB()
	if err := db.WithContext(ctx).Create(log).Error; err != nil {
		d.logger.Error(ctx, "Failed to create search log",
			logger.F("query", log.Query),
			logger.F("search_type", log.SearchType),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to create search log: %v", err)
	}

	d.logger.Debug(ctx, "Search log created",
		logger.F("log_id", log.ID),
		logger.F("query", log.Query),
		logger.F("results_count", log.ResultsCount))
	return nil
}

// RecordClick 记录点击结果
// 只更新尚未记录点击的日志，重复点击不覆盖首次记录
func (d *analyticsDAO) RecordClick(ctx context.Context, logID int64, resultID, resultType string) error {
	db := d.db.GetDB()

	result := db.WithContext(ctx).
		Model(&model.SearchLog{}).
		Where("id = ? AND clicked_result_id = ''", logID).
		Updates(map[string]interface{}{
			"clicked_result_id":   resultID,
			"clicked_result_type": resultType,
		})
	if result.Error != nil {
		d.logger.Error(ctx, "Failed to record click",
			logger.F("log_id", logID),
			logger.F("result_id", resultID),
			logger.F("error", result.Error.Error()))
		return fmt.Errorf("failed to record click: %v", result.Error)
	}

	if result.RowsAffected == 0 {
		var existing model.SearchLog
		err := db.WithContext(ctx).First(&existing, logID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSearchLogNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to record click: %v", err)
		}
		// 已记录过点击，保持首次记录不变
		return nil
	}

	d.logger.Debug(ctx, "Click recorded",
		logger.F("log_id", logID),
		logger.F("result_id", resultID),
		logger.F("result_type", resultType))
	return nil
}

// ============ 搜索分析统计 ============

// GetAnalytics 统计时间区间内的搜索分析报告
func (d *analyticsDAO) GetAnalytics(ctx context.Context, from, to time.Time) (*model.SearchAnalyticsReport, error) {
	db := d.db.GetDB()
	base := db.WithContext(ctx).
		Model(&model.SearchLog{}).
		Where("created_at >= ? AND created_at <= ?", from, to)

	report := &model.SearchAnalyticsReport{From: from, To: to}

	if err := base.Session(&gorm.Session{}).Count(&report.TotalSearches).Error; err != nil {
		return nil, fmt.Errorf("failed to count searches: %v", err)
	}

	if err := base.Session(&gorm.Session{}).
		Where("clicked_result_id <> ''").
		Count(&report.ClickedSearches).Error; err != nil {
		return nil, fmt.Errorf("failed to count clicked searches: %v", err)
	}

	if err := base.Session(&gorm.Session{}).
		Where("results_count = 0").
		Count(&report.ZeroResultSearches).Error; err != nil {
		return nil, fmt.Errorf("failed to count zero result searches: %v", err)
	}

	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(AVG(took_ms), 0)").
		Scan(&report.AvgTookMs).Error; err != nil {
		return nil, fmt.Errorf("failed to compute avg took: %v", err)
	}

	var top []model.QueryStat
	if err := base.Session(&gorm.Session{}).
		Select("query, COUNT(*) AS count").
		Group("query").
		Order("count DESC").
		Limit(10).
		Scan(&top).Error; err != nil {
		return nil, fmt.Errorf("failed to compute top queries: %v", err)
	}
	report.TopQueries = top

	if report.TotalSearches > 0 {
		report.ClickThroughRate = float64(report.ClickedSearches) / float64(report.TotalSearches)
	}

	return report, nil
}
