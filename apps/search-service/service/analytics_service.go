package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/model"
	"coursehub/pkg/logger"
)

// analyticsService 搜索分析服务实现
// 搜索日志经有界队列异步落库，队列积压不会阻塞也不会失败搜索主流程
type analyticsService struct {
	store   dao.AnalyticsStore
	logger  logger.Logger
	queue   chan *model.SearchLog
	done    chan struct{}
	dropped atomic.Int64
	startMu sync.Mutex
	started bool
}

// NewAnalyticsService 创建搜索分析服务实例
func NewAnalyticsService(store dao.AnalyticsStore, queueSize int, log logger.Logger) AnalyticsService {
	if queueSize <= 0 {
		queueSize = DefaultServiceConfig().AnalyticsQueue
	}

	return &analyticsService{
		store:  store,
		logger: log,
		queue:  make(chan *model.SearchLog, queueSize),
		done:   make(chan struct{}),
	}
}

// Start 启动后台写入协程
func (s *analyticsService) Start() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.started {
		return
	}
	s.started = true

	go s.run()
}

// Stop 关闭队列并等待排空
func (s *analyticsService) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if !s.started {
		return
	}
	s.started = false

	close(s.queue)
	<-s.done
}

// run 排空队列，单条写入失败只告警
func (s *analyticsService) run() {
	defer close(s.done)

	for entry := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.store.CreateSearchLog(ctx, entry); err != nil {
			s.logger.Warn(ctx, "Failed to persist search log",
				logger.F("query", entry.Query),
				logger.F("error", err.Error()))
		}
		cancel()
	}
}

// LogSearch 非阻塞入队一条搜索日志
// 队列满时丢弃并计数，保证搜索路径不被日志反压拖慢
func (s *analyticsService) LogSearch(entry *model.SearchLog) {
	select {
	case s.queue <- entry:
	default:
		s.dropped.Add(1)
		s.logger.Warn(context.Background(), "Analytics queue full, search log dropped",
			logger.F("query", entry.Query),
			logger.F("dropped_total", s.dropped.Load()))
	}
}

// Dropped 累计丢弃条数
func (s *analyticsService) Dropped() int64 {
	return s.dropped.Load()
}

// LogClick 记录结果点击
func (s *analyticsService) LogClick(ctx context.Context, logID int64, resultID, resultType string) error {
	return s.store.RecordClick(ctx, logID, resultID, resultType)
}

// GetAnalytics 统计时间区间内的搜索分析报告
func (s *analyticsService) GetAnalytics(ctx context.Context, from, to time.Time) (*model.SearchAnalyticsReport, error) {
	return s.store.GetAnalytics(ctx, from, to)
}
