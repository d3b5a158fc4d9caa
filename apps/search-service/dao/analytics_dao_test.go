package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"coursehub/apps/search-service/model"
	"coursehub/pkg/database"
	"coursehub/pkg/logger"
)

// ============ 测试辅助 ============

// newTestAnalyticsStore 基于内存sqlite构造搜索日志存储
func newTestAnalyticsStore(t *testing.T) (AnalyticsStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库随连接销毁，全程只用一个连接
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.SearchLog{}))

	pg, err := database.NewFromDB(db)
	require.NoError(t, err)

	return NewAnalyticsDAO(pg, logger.GetLogger()), db
}

// seedSearchLog 写入一条搜索日志并返回带ID的实例
func seedSearchLog(t *testing.T, store AnalyticsStore, query string, resultsCount int) *model.SearchLog {
	t.Helper()

	log := &model.SearchLog{
		Query:        query,
		SearchType:   model.SearchTypePosts,
		Page:         1,
		ResultsCount: resultsCount,
		TookMs:       12,
	}
	require.NoError(t, store.CreateSearchLog(context.Background(), log))
	require.NotZero(t, log.ID)
	return log
}

func reportWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(time.Hour)
}

// ============ 点击记录 ============

func TestAnalyticsDAORecordClickOnceOnly(t *testing.T) {
	store, db := newTestAnalyticsStore(t)
	ctx := context.Background()

	log := seedSearchLog(t, store, "golang", 5)

	require.NoError(t, store.RecordClick(ctx, log.ID, "post-1", "posts"))

	// 重复点击不报错，也不覆盖首次记录
	require.NoError(t, store.RecordClick(ctx, log.ID, "post-2", "posts"))

	var stored model.SearchLog
	require.NoError(t, db.First(&stored, log.ID).Error)
	assert.Equal(t, "post-1", stored.ClickedResultID)
	assert.Equal(t, "posts", stored.ClickedResultType)
}

func TestAnalyticsDAORecordClickUnknownLog(t *testing.T) {
	store, _ := newTestAnalyticsStore(t)

	err := store.RecordClick(context.Background(), 9999, "post-1", "posts")
	assert.ErrorIs(t, err, ErrSearchLogNotFound)
}

// ============ 分析报告 ============

func TestAnalyticsDAOClickThroughRate(t *testing.T) {
	store, _ := newTestAnalyticsStore(t)
	ctx := context.Background()
	from, to := reportWindow()

	logs := make([]*model.SearchLog, 0, 4)
	for i := 0; i < 4; i++ {
		logs = append(logs, seedSearchLog(t, store, "kubernetes", 3))
	}

	report, err := store.GetAnalytics(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(4), report.TotalSearches)
	assert.Equal(t, int64(0), report.ClickedSearches)
	assert.Equal(t, 0.0, report.ClickThroughRate)

	// 一次点击后点击率上升
	require.NoError(t, store.RecordClick(ctx, logs[0].ID, "post-1", "posts"))

	report, err = store.GetAnalytics(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.ClickedSearches)
	assert.InDelta(t, 0.25, report.ClickThroughRate, 0.0001)

	// 对同一条日志的重复点击不再抬升点击率
	require.NoError(t, store.RecordClick(ctx, logs[0].ID, "post-9", "posts"))

	report, err = store.GetAnalytics(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.ClickedSearches)
	assert.InDelta(t, 0.25, report.ClickThroughRate, 0.0001)

	// 另一条日志的点击继续抬升点击率
	require.NoError(t, store.RecordClick(ctx, logs[1].ID, "post-2", "posts"))

	report, err = store.GetAnalytics(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.ClickedSearches)
	assert.InDelta(t, 0.5, report.ClickThroughRate, 0.0001)
}

func TestAnalyticsDAOReportAggregates(t *testing.T) {
	store, _ := newTestAnalyticsStore(t)
	from, to := reportWindow()

	seedSearchLog(t, store, "golang", 5)
	seedSearchLog(t, store, "golang", 3)
	seedSearchLog(t, store, "golang", 0)
	seedSearchLog(t, store, "redis", 2)
	seedSearchLog(t, store, "missingno", 0)

	report, err := store.GetAnalytics(context.Background(), from, to)
	require.NoError(t, err)

	assert.Equal(t, int64(5), report.TotalSearches)
	assert.Equal(t, int64(2), report.ZeroResultSearches)
	assert.InDelta(t, 12.0, report.AvgTookMs, 0.0001)

	require.NotEmpty(t, report.TopQueries)
	assert.Equal(t, "golang", report.TopQueries[0].Query)
	assert.Equal(t, int64(3), report.TopQueries[0].Count)
}

func TestAnalyticsDAOReportWindow(t *testing.T) {
	store, db := newTestAnalyticsStore(t)

	log := seedSearchLog(t, store, "golang", 5)

	// 把日志挪出统计区间
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.Model(&model.SearchLog{}).
		Where("id = ?", log.ID).
		Update("created_at", stale).Error)

	from, to := reportWindow()
	report, err := store.GetAnalytics(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(0), report.TotalSearches)
	assert.Empty(t, report.TopQueries)
}
