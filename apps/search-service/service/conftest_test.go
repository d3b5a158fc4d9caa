package service

import (
	"context"
	"time"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/model"
	"coursehub/pkg/logger"
)

// ============ 测试替身 ============

// fakeBackend 可编程的搜索后端替身
type fakeBackend struct {
	searchFn    func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error)
	bulkIndexFn func(ctx context.Context, indexName string, documents []dao.BulkDocument) error
	pingErr     error

	searchCalls int
	bulkCalls   []bulkCall
}

type bulkCall struct {
	indexName string
	documents []dao.BulkDocument
}

func (f *fakeBackend) Search(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
	f.searchCalls++
	if f.searchFn != nil {
		return f.searchFn(ctx, indices, body)
	}
	return &dao.SearchResponse{}, nil
}

func (f *fakeBackend) BulkIndex(ctx context.Context, indexName string, documents []dao.BulkDocument) error {
	f.bulkCalls = append(f.bulkCalls, bulkCall{indexName: indexName, documents: documents})
	if f.bulkIndexFn != nil {
		return f.bulkIndexFn(ctx, indexName, documents)
	}
	return nil
}

func (f *fakeBackend) EnsureIndex(ctx context.Context, indexName string, mapping map[string]interface{}, settings map[string]interface{}) error {
	return nil
}

func (f *fakeBackend) Ping(ctx context.Context) error {
	return f.pingErr
}

// fakeRecordStore 关系库替身
type fakeRecordStore struct {
	posts       []*model.PostRow
	comments    []*model.CommentRow
	users       []*model.UserRecord
	communities []*model.CommunityRecord
	courses     []*model.CourseRow

	listErr     error
	fallbackErr error
	healthErr   error

	postFallbackCalls int
	lastCommunityID   int64
}

func pageOf[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return nil
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func (f *fakeRecordStore) ListPosts(ctx context.Context, offset, limit int) ([]*model.PostRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pageOf(f.posts, offset, limit), nil
}

func (f *fakeRecordStore) ListComments(ctx context.Context, offset, limit int) ([]*model.CommentRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pageOf(f.comments, offset, limit), nil
}

func (f *fakeRecordStore) ListUsers(ctx context.Context, offset, limit int) ([]*model.UserRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pageOf(f.users, offset, limit), nil
}

func (f *fakeRecordStore) ListCommunities(ctx context.Context, offset, limit int) ([]*model.CommunityRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pageOf(f.communities, offset, limit), nil
}

func (f *fakeRecordStore) ListCourses(ctx context.Context, offset, limit int) ([]*model.CourseRow, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return pageOf(f.courses, offset, limit), nil
}

func (f *fakeRecordStore) SearchPostsFallback(ctx context.Context, query string, communityID int64, offset, limit int) ([]*model.PostRow, int64, error) {
	f.postFallbackCalls++
	f.lastCommunityID = communityID
	if f.fallbackErr != nil {
		return nil, 0, f.fallbackErr
	}
	page := pageOf(f.posts, offset, limit)
	return page, int64(len(f.posts)), nil
}

func (f *fakeRecordStore) SearchUsersFallback(ctx context.Context, query string, offset, limit int) ([]*model.UserRecord, int64, error) {
	if f.fallbackErr != nil {
		return nil, 0, f.fallbackErr
	}
	page := pageOf(f.users, offset, limit)
	return page, int64(len(f.users)), nil
}

func (f *fakeRecordStore) Health(ctx context.Context) error {
	return f.healthErr
}

// fakeAnalytics 分析服务替身，同步记录入队的日志
type fakeAnalytics struct {
	logs []*model.SearchLog
}

func (f *fakeAnalytics) Start() {}
func (f *fakeAnalytics) Stop()  {}

func (f *fakeAnalytics) LogSearch(entry *model.SearchLog) {
	f.logs = append(f.logs, entry)
}

func (f *fakeAnalytics) LogClick(ctx context.Context, logID int64, resultID, resultType string) error {
	return nil
}

func (f *fakeAnalytics) GetAnalytics(ctx context.Context, from, to time.Time) (*model.SearchAnalyticsReport, error) {
	return &model.SearchAnalyticsReport{}, nil
}

// fakeAnalyticsStore 日志存储替身
type fakeAnalyticsStore struct {
	createFn func(ctx context.Context, entry *model.SearchLog) error
	created  []*model.SearchLog
}

func (f *fakeAnalyticsStore) CreateSearchLog(ctx context.Context, entry *model.SearchLog) error {
	if f.createFn != nil {
		if err := f.createFn(ctx, entry); err != nil {
			return err
		}
	}
	f.created = append(f.created, entry)
	return nil
}

func (f *fakeAnalyticsStore) RecordClick(ctx context.Context, logID int64, resultID, resultType string) error {
	return nil
}

func (f *fakeAnalyticsStore) GetAnalytics(ctx context.Context, from, to time.Time) (*model.SearchAnalyticsReport, error) {
	return &model.SearchAnalyticsReport{}, nil
}

// newTestSearchService 组装带替身依赖的搜索服务
func newTestSearchService(backend dao.QueryBackend, records dao.RecordStore, analytics AnalyticsService) SearchService {
	return NewSearchService(backend, records, analytics, NewNoopCacheService(), NewNoopEventService(), nil, logger.GetLogger())
}
