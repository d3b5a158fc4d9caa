package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/model"
	"coursehub/pkg/logger"
)

func newTestSyncService(backend dao.QueryBackend, records dao.RecordStore, config *ServiceConfig) SyncService {
	return NewSyncService(backend, records, NewNoopEventService(), config, logger.GetLogger())
}

func testPosts(n int) []*model.PostRow {
	rows := make([]*model.PostRow, n)
	for i := range rows {
		rows[i] = &model.PostRow{
			PostRecord: model.PostRecord{ID: int64(i + 1), Title: "post", Content: "content"},
		}
	}
	return rows
}

func TestSyncIndex_PagesThroughSource(t *testing.T) {
	backend := &fakeBackend{}
	records := &fakeRecordStore{posts: testPosts(5)}
	config := DefaultServiceConfig()
	config.SyncBatchSize = 2
	svc := newTestSyncService(backend, records, config)

	err := svc.SyncIndex(context.Background(), model.SearchTypePosts)
	require.NoError(t, err)

	// 5行按批大小2分三批写入
	require.Len(t, backend.bulkCalls, 3)
	total := 0
	for _, call := range backend.bulkCalls {
		assert.Equal(t, model.IndexPosts, call.indexName)
		total += len(call.documents)
	}
	assert.Equal(t, 5, total)
	assert.Equal(t, "1", backend.bulkCalls[0].documents[0].ID)
}

func TestSyncIndex_Idempotent(t *testing.T) {
	records := &fakeRecordStore{posts: testPosts(3)}
	config := DefaultServiceConfig()
	config.SyncBatchSize = 10

	first := &fakeBackend{}
	require.NoError(t, newTestSyncService(first, records, config).SyncIndex(context.Background(), model.SearchTypePosts))

	second := &fakeBackend{}
	require.NoError(t, newTestSyncService(second, records, config).SyncIndex(context.Background(), model.SearchTypePosts))

	// 两次重建写入的文档完全一致
	assert.Equal(t, first.bulkCalls, second.bulkCalls)
}

func TestSyncIndex_UnknownType(t *testing.T) {
	svc := newTestSyncService(&fakeBackend{}, &fakeRecordStore{}, nil)

	err := svc.SyncIndex(context.Background(), "videos")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSearchType)
}

func TestSyncIndex_BulkFailure(t *testing.T) {
	backend := &fakeBackend{
		bulkIndexFn: func(ctx context.Context, indexName string, documents []dao.BulkDocument) error {
			return errors.New("bulk rejected")
		},
	}
	records := &fakeRecordStore{posts: testPosts(1)}
	svc := newTestSyncService(backend, records, nil)

	err := svc.SyncIndex(context.Background(), model.SearchTypePosts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to bulk index")
}

func TestSyncAll_AbortsOnFirstFailure(t *testing.T) {
	// 帖子同步成功后评论读取失败，后续类型不再执行
	records := &fakeRecordStore{posts: testPosts(1)}
	backend := &fakeBackend{}
	callCount := 0
	backend.bulkIndexFn = func(ctx context.Context, indexName string, documents []dao.BulkDocument) error {
		callCount++
		return nil
	}

	listErrStore := &failAfterPostsStore{fakeRecordStore: records}
	svc := newTestSyncService(backend, listErrStore, nil)

	err := svc.SyncAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to sync comments")

	// 只有帖子批次落盘
	for _, call := range backend.bulkCalls {
		assert.Equal(t, model.IndexPosts, call.indexName)
	}
}

// failAfterPostsStore 帖子读取正常，评论读取报错
type failAfterPostsStore struct {
	*fakeRecordStore
}

func (f *failAfterPostsStore) ListComments(ctx context.Context, offset, limit int) ([]*model.CommentRow, error) {
	return nil, errors.New("comments table unavailable")
}

func TestHealthCheck(t *testing.T) {
	svc := newTestSyncService(&fakeBackend{}, &fakeRecordStore{}, nil)
	assert.NoError(t, svc.HealthCheck(context.Background()))

	backendDown := newTestSyncService(&fakeBackend{pingErr: errors.New("es down")}, &fakeRecordStore{}, nil)
	err := backendDown.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search backend health check failed")

	dbDown := newTestSyncService(&fakeBackend{}, &fakeRecordStore{healthErr: errors.New("db down")}, nil)
	err = dbDown.HealthCheck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record store health check failed")
}
