package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub/apps/search-service/model"
	"coursehub/pkg/logger"
)

func TestAnalyticsService_PersistsQueuedLogs(t *testing.T) {
	store := &fakeAnalyticsStore{}
	svc := NewAnalyticsService(store, 16, logger.GetLogger())
	svc.Start()

	for i := 0; i < 5; i++ {
		svc.LogSearch(&model.SearchLog{Query: "go"})
	}
	svc.Stop()

	// Stop排空队列后全部落盘
	assert.Len(t, store.created, 5)
}

func TestAnalyticsService_DropsWhenQueueFull(t *testing.T) {
	blocked := make(chan struct{})
	store := &fakeAnalyticsStore{
		createFn: func(ctx context.Context, entry *model.SearchLog) error {
			<-blocked
			return nil
		},
	}

	svc := NewAnalyticsService(store, 1, logger.GetLogger())
	svc.Start()

	// 第一条被写入协程取走并阻塞，第二条占满队列，第三条必须立即被丢弃
	svc.LogSearch(&model.SearchLog{Query: "first"})
	time.Sleep(50 * time.Millisecond)
	svc.LogSearch(&model.SearchLog{Query: "second"})

	done := make(chan struct{})
	go func() {
		svc.LogSearch(&model.SearchLog{Query: "third"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("LogSearch blocked on full queue")
	}

	impl, ok := svc.(*analyticsService)
	require.True(t, ok)
	assert.Equal(t, int64(1), impl.Dropped())

	close(blocked)
	svc.Stop()
}

func TestAnalyticsService_StopIsIdempotentWithStart(t *testing.T) {
	store := &fakeAnalyticsStore{}
	svc := NewAnalyticsService(store, 4, logger.GetLogger())

	// 未启动时Stop是空操作
	svc.Stop()

	svc.Start()
	svc.Start()
	svc.LogSearch(&model.SearchLog{Query: "go"})
	svc.Stop()

	assert.Len(t, store.created, 1)
}
