package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/model"
)

func cannedResponse() *dao.SearchResponse {
	resp := &dao.SearchResponse{
		Took: 12,
		Hits: dao.SearchHits{
			Hits: []dao.SearchHit{
				{
					Index:  model.IndexPosts,
					ID:     "1",
					Score:  3.2,
					Source: map[string]interface{}{"title": "Go concurrency patterns"},
				},
				{
					Index:  model.IndexCourses,
					ID:     "9",
					Score:  1.1,
					Source: map[string]interface{}{"title": "Distributed systems"},
				},
			},
		},
	}
	resp.Hits.Total.Value = 2
	return resp
}

func TestSearch_BackendPath(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			assert.Len(t, indices, len(model.AllSearchTypes))
			return cannedResponse(), nil
		},
	}
	records := &fakeRecordStore{}
	analytics := &fakeAnalytics{}
	svc := newTestSearchService(backend, records, analytics)

	result, err := svc.Search(context.Background(), &model.SearchRequest{Query: "go"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, model.SearchTypePosts, result.Hits[0].Type)
	assert.Equal(t, model.SearchTypeCourses, result.Hits[1].Type)
	// 回显规范化后的分页参数
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.Limit)
	// 降级路径未触达
	assert.Zero(t, records.postFallbackCalls)
}

func TestSearch_FallbackOnBackendFailure(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	records := &fakeRecordStore{
		posts: []*model.PostRow{
			{PostRecord: model.PostRecord{ID: 1, Title: "Go tips", Content: "go stuff"}},
		},
		users: []*model.UserRecord{
			{ID: 5, Username: "gopher"},
		},
	}
	analytics := &fakeAnalytics{}
	svc := newTestSearchService(backend, records, analytics)

	result, err := svc.Search(context.Background(), &model.SearchRequest{Query: "go"})
	require.NoError(t, err)

	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Hits, 2)
	assert.Equal(t, model.SearchTypePosts, result.Hits[0].Type)
	assert.Zero(t, result.Hits[0].Score)
	assert.Equal(t, model.SearchTypeUsers, result.Hits[1].Type)
	// 降级路径同样回显分页参数
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.Limit)
}

func TestSearch_FallbackScopedByCommunity(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	records := &fakeRecordStore{}
	svc := newTestSearchService(backend, records, &fakeAnalytics{})

	_, err := svc.Search(context.Background(), &model.SearchRequest{
		Query: "go",
		Type:  model.SearchTypePosts,
		Filters: []model.Filter{
			model.ExactFilter{Key: "community_id", Value: float64(7)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), records.lastCommunityID)
}

func TestSearch_FallbackAlsoFails(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	records := &fakeRecordStore{fallbackErr: errors.New("db down")}
	svc := newTestSearchService(backend, records, &fakeAnalytics{})

	_, err := svc.Search(context.Background(), &model.SearchRequest{Query: "go"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback search failed")
}

func TestSearch_UnsupportedType(t *testing.T) {
	svc := newTestSearchService(&fakeBackend{}, &fakeRecordStore{}, &fakeAnalytics{})

	_, err := svc.Search(context.Background(), &model.SearchRequest{Query: "go", Type: "videos"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSearchType)
}

func TestSearch_RecordsLog(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			return cannedResponse(), nil
		},
	}
	analytics := &fakeAnalytics{}
	svc := newTestSearchService(backend, &fakeRecordStore{}, analytics)

	_, err := svc.Search(context.Background(), &model.SearchRequest{
		Query:  "go",
		Type:   model.SearchTypePosts,
		UserID: 42,
	})
	require.NoError(t, err)

	require.Len(t, analytics.logs, 1)
	entry := analytics.logs[0]
	assert.Equal(t, "go", entry.Query)
	assert.Equal(t, model.SearchTypePosts, entry.SearchType)
	assert.Equal(t, 2, entry.ResultsCount)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, int64(42), *entry.UserID)
}

func TestSuggest_ShortPrefixSkipsBackend(t *testing.T) {
	backend := &fakeBackend{}
	svc := newTestSearchService(backend, &fakeRecordStore{}, &fakeAnalytics{})

	suggestions, err := svc.Suggest(context.Background(), model.SearchTypeAll, "k", "title", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
	assert.Zero(t, backend.searchCalls)
}

func TestSuggest_ParsesTermBuckets(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			return &dao.SearchResponse{
				Aggregations: map[string]interface{}{
					"suggestions": map[string]interface{}{
						"buckets": []interface{}{
							map[string]interface{}{"key": "kubernetes", "doc_count": float64(14)},
							map[string]interface{}{"key": "kubernetes operators", "doc_count": float64(3)},
						},
					},
				},
			}, nil
		},
	}
	svc := newTestSearchService(backend, &fakeRecordStore{}, &fakeAnalytics{})

	suggestions, err := svc.Suggest(context.Background(), model.SearchTypePosts, "kube", "title", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, model.Suggestion{Text: "kubernetes", Count: 14}, suggestions[0])
	assert.Equal(t, model.Suggestion{Text: "kubernetes operators", Count: 3}, suggestions[1])
}

func TestSuggest_BackendFailureReturnsEmpty(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestSearchService(backend, &fakeRecordStore{}, &fakeAnalytics{})

	suggestions, err := svc.Suggest(context.Background(), model.SearchTypeAll, "kube", "title", 10)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestFindSimilar_UnsupportedType(t *testing.T) {
	svc := newTestSearchService(&fakeBackend{}, &fakeRecordStore{}, &fakeAnalytics{})

	// all不对应单一索引，相似查询不支持
	_, err := svc.FindSimilar(context.Background(), &model.SimilarRequest{Type: model.SearchTypeAll, ID: "1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSearchType)
}

func TestFindSimilar_CapsMaxResults(t *testing.T) {
	var gotBody map[string]interface{}
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			gotBody = body
			assert.Equal(t, []string{model.IndexPosts}, indices)
			return &dao.SearchResponse{}, nil
		},
	}
	svc := newTestSearchService(backend, &fakeRecordStore{}, &fakeAnalytics{})

	_, err := svc.FindSimilar(context.Background(), &model.SimilarRequest{
		Type:       model.SearchTypePosts,
		ID:         "123",
		MaxResults: 10000,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultServiceConfig().SimilarMaxSize, gotBody["size"])
}

func TestFindSimilar_BackendFailurePropagates(t *testing.T) {
	backend := &fakeBackend{
		searchFn: func(ctx context.Context, indices []string, body map[string]interface{}) (*dao.SearchResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestSearchService(backend, &fakeRecordStore{}, &fakeAnalytics{})

	_, err := svc.FindSimilar(context.Background(), &model.SimilarRequest{Type: model.SearchTypePosts, ID: "123"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find similar documents")
}
