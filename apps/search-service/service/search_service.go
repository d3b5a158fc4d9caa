package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/model"
	"coursehub/pkg/logger"
)

// searchService 搜索服务实现
type searchService struct {
	backend   dao.QueryBackend
	records   dao.RecordStore
	analytics AnalyticsService
	cache     CacheService
	events    EventService
	builder   *queryBuilder
	config    *ServiceConfig
	logger    logger.Logger
}

// NewSearchService 创建搜索服务实例
func NewSearchService(
	backend dao.QueryBackend,
	records dao.RecordStore,
	analytics AnalyticsService,
	cache CacheService,
	events EventService,
	config *ServiceConfig,
	log logger.Logger,
) SearchService {
	if config == nil {
		config = DefaultServiceConfig()
	}

	return &searchService{
		backend:   backend,
		records:   records,
		analytics: analytics,
		cache:     cache,
		events:    events,
		builder:   newQueryBuilder(config),
		config:    config,
		logger:    log,
	}
}

// ============ 通用搜索 ============

// Search 通用搜索
// 后端失败时降级到关系库，调用方不感知结果来自哪条路径
func (s *searchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error) {
	req.Normalize(s.config.DefaultPageSize, s.config.MaxPageSize)

	if !model.IsValidSearchType(req.Type) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSearchType, req.Type)
	}

	start := time.Now()
	indices := model.IndicesForSearchType(req.Type)
	body := s.builder.BuildSearchBody(req)

	var result *model.SearchResult
	fallback := false

	resp, err := s.backend.Search(ctx, indices, body)
	if err != nil {
		s.logger.Warn(ctx, "Search backend unavailable, falling back to record store",
			logger.F("query", req.Query),
			logger.F("type", req.Type),
			logger.F("error", err.Error()))

		result, err = s.fallbackSearch(ctx, req)
		if err != nil {
			// 关系库也不可用，没有进一步的降级空间
			return nil, fmt.Errorf("fallback search failed: %v", err)
		}
		fallback = true
	} else {
		result = convertSearchResponse(resp)
	}

	result.Page = req.Page
	result.Limit = req.Limit
	result.TookMs = time.Since(start).Milliseconds()

	s.recordSearch(ctx, req, result, fallback)
	return result, nil
}

// fallbackSearch 关系库降级搜索
// 只支持帖子与用户的子串匹配，其余类型返回空集而不报错
func (s *searchService) fallbackSearch(ctx context.Context, req *model.SearchRequest) (*model.SearchResult, error) {
	result := &model.SearchResult{Hits: make([]*model.ResultHit, 0)}

	if req.Type == model.SearchTypeAll || req.Type == model.SearchTypePosts {
		rows, total, err := s.records.SearchPostsFallback(ctx, req.Query, communityScope(req.Filters), req.Offset(), req.Limit)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			result.Hits = append(result.Hits, postRowToHit(row))
		}
		result.Total += total
	}

	if req.Type == model.SearchTypeAll || req.Type == model.SearchTypeUsers {
		records, total, err := s.records.SearchUsersFallback(ctx, req.Query, req.Offset(), req.Limit)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			result.Hits = append(result.Hits, userRecordToHit(record))
		}
		result.Total += total
	}

	return result, nil
}

// recordSearch 记录搜索日志并发布事件，两者都不影响主流程
func (s *searchService) recordSearch(ctx context.Context, req *model.SearchRequest, result *model.SearchResult, fallback bool) {
	entry := &model.SearchLog{
		Query:        req.Query,
		SearchType:   req.Type,
		Filters:      snapshotFilters(req.Filters),
		Page:         req.Page,
		ResultsCount: len(result.Hits),
		TookMs:       result.TookMs,
	}
	if req.UserID > 0 {
		userID := req.UserID
		entry.UserID = &userID
	}
	s.analytics.LogSearch(entry)

	event := &SearchEvent{
		Query:      req.Query,
		SearchType: req.Type,
		Total:      result.Total,
		TookMs:     result.TookMs,
		Fallback:   fallback,
		Timestamp:  time.Now().Unix(),
		Source:     "search-service",
	}
	if err := s.events.PublishSearchEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish search event",
			logger.F("query", req.Query),
			logger.F("error", err.Error()))
	}
}

// ============ 搜索建议 ============

// Suggest 前缀自动完成建议
// 前缀不足最小长度时直接返回空列表，不触达缓存与后端
func (s *searchService) Suggest(ctx context.Context, searchType, prefix, field string, size int) ([]model.Suggestion, error) {
	if len([]rune(prefix)) < s.config.SuggestMinPrefix {
		return []model.Suggestion{}, nil
	}

	if searchType == "" {
		searchType = model.SearchTypeAll
	}
	if !model.IsValidSearchType(searchType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSearchType, searchType)
	}
	if field == "" {
		field = defaultSuggestField(searchType)
	}
	if size <= 0 {
		size = s.config.SuggestSize
	}

	cacheKey := fmt.Sprintf("suggest:%s:%s:%s:%d", searchType, field, prefix, size)
	if cached, ok := s.cache.GetSuggestions(ctx, cacheKey); ok {
		return cached, nil
	}

	indices := model.IndicesForSearchType(searchType)
	body := s.builder.BuildSuggestBody(prefix, field, size)

	resp, err := s.backend.Search(ctx, indices, body)
	if err != nil {
		// 建议是尽力而为的辅助功能，后端不可用时返回空列表
		s.logger.Warn(ctx, "Suggest backend unavailable",
			logger.F("prefix", prefix),
			logger.F("error", err.Error()))
		return []model.Suggestion{}, nil
	}

	suggestions := convertSuggestions(resp)
	s.cache.SetSuggestions(ctx, cacheKey, suggestions)
	return suggestions, nil
}

// defaultSuggestField 各内容类型的默认建议字段
func defaultSuggestField(searchType string) string {
	switch searchType {
	case model.SearchTypeUsers:
		return "username"
	case model.SearchTypeCommunities:
		return "name"
	default:
		return "title"
	}
}

// ============ 相似内容 ============

// FindSimilar 相似内容查询
// 只针对单一内容类型的索引执行，all不支持
func (s *searchService) FindSimilar(ctx context.Context, req *model.SimilarRequest) (*model.SearchResult, error) {
	index := model.GetIndexBySearchType(req.Type)
	if index == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSearchType, req.Type)
	}
	if req.ID == "" {
		return nil, fmt.Errorf("document id is required")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 || maxResults > s.config.MaxPageSize {
		maxResults = s.config.SimilarMaxSize
	}

	body := s.builder.BuildSimilarBody(index, req.ID, maxResults)

	resp, err := s.backend.Search(ctx, []string{index}, body)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar documents: %v", err)
	}

	return convertSearchResponse(resp), nil
}

// ============ 辅助方法 ============

// communityScope 从过滤条件里取社区限定
func communityScope(filters []model.Filter) int64 {
	for _, f := range filters {
		exact, ok := f.(model.ExactFilter)
		if !ok || exact.Key != "community_id" {
			continue
		}

		switch v := exact.Value.(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		case int:
			return int64(v)
		case string:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				return id
			}
		}
	}
	return 0
}

// snapshotFilters 过滤条件的JSON快照，仅用于日志
func snapshotFilters(filters []model.Filter) string {
	if len(filters) == 0 {
		return ""
	}

	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return string(data)
}
