package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coursehub/apps/search-service/model"
	"coursehub/apps/search-service/service"
	"coursehub/pkg/logger"
)

// HTTPHandler HTTP处理器
type HTTPHandler struct {
	searchService    service.SearchService
	syncService      service.SyncService
	analyticsService service.AnalyticsService
	logger           logger.Logger
}

// NewHTTPHandler 创建HTTP处理器
func NewHTTPHandler(
	searchService service.SearchService,
	syncService service.SyncService,
	analyticsService service.AnalyticsService,
	log logger.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		searchService:    searchService,
		syncService:      syncService,
		analyticsService: analyticsService,
		logger:           log,
	}
}

// RegisterRoutes 注册路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// 搜索相关路由
	search := api.Group("/search")
	{
		search.GET("", h.Search)
		search.GET("/suggest", h.Suggest)
		search.GET("/related/:type/:id", h.FindSimilar)
	}

	// 搜索分析相关路由
	analytics := api.Group("/search/analytics")
	{
		analytics.POST("/click", h.RecordClick)
		analytics.GET("", h.GetAnalytics)
	}

	// 索引管理相关路由（管理员接口）
	admin := api.Group("/search/admin")
	{
		admin.POST("/sync", h.SyncAll)
		admin.POST("/sync/:type", h.SyncIndex)
	}

	// 健康检查
	api.GET("/health", h.HealthCheck)
}

// ============ 搜索接口 ============

// Search 通用搜索
func (h *HTTPHandler) Search(c *gin.Context) {
	req := &model.SearchRequest{}
	if err := h.bindSearchRequest(c, req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedSearchType) {
			h.respondError(c, http.StatusBadRequest, "invalid request", err.Error())
			return
		}
		h.logger.Error(c.Request.Context(), "Search failed",
			logger.F("query", req.Query),
			logger.F("type", req.Type),
			logger.F("error", err.Error()))
		h.respondError(c, http.StatusInternalServerError, "search failed", err.Error())
		return
	}

	h.respondSuccess(c, result)
}

// Suggest 自动完成建议
func (h *HTTPHandler) Suggest(c *gin.Context) {
	prefix := c.Query("q")
	if prefix == "" {
		prefix = c.Query("query")
	}
	searchType := c.DefaultQuery("type", model.SearchTypeAll)
	// field为空时由服务按内容类型选择默认建议字段
	field := c.Query("field")

	if !model.IsValidSearchType(searchType) {
		h.respondError(c, http.StatusBadRequest, "invalid request", "unknown search type: "+searchType)
		return
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "0"))
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", "invalid size")
		return
	}

	suggestions, err := h.searchService.Suggest(c.Request.Context(), searchType, prefix, field, size)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Suggest failed",
			logger.F("prefix", prefix),
			logger.F("type", searchType),
			logger.F("error", err.Error()))
		h.respondError(c, http.StatusInternalServerError, "suggest failed", err.Error())
		return
	}

	h.respondSuccess(c, gin.H{
		"prefix":      prefix,
		"type":        searchType,
		"suggestions": suggestions,
	})
}

// FindSimilar 相似内容查询
func (h *HTTPHandler) FindSimilar(c *gin.Context) {
	req := &model.SimilarRequest{
		Type: c.Param("type"),
		ID:   c.Param("id"),
	}
	if maxResults, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		req.MaxResults = maxResults
	}

	result, err := h.searchService.FindSimilar(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedSearchType) {
			h.respondError(c, http.StatusBadRequest, "invalid request", err.Error())
			return
		}
		h.logger.Error(c.Request.Context(), "Find similar failed",
			logger.F("type", req.Type),
			logger.F("id", req.ID),
			logger.F("error", err.Error()))
		h.respondError(c, http.StatusInternalServerError, "find similar failed", err.Error())
		return
	}

	h.respondSuccess(c, result)
}

// ============ 分析接口 ============

// clickRequest 点击上报请求体
type clickRequest struct {
	LogID      int64  `json:"log_id" binding:"required"`
	ResultID   string `json:"result_id" binding:"required"`
	ResultType string `json:"result_type" binding:"required"`
}

// RecordClick 记录搜索结果点击
func (h *HTTPHandler) RecordClick(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	if err := h.analyticsService.LogClick(c.Request.Context(), req.LogID, req.ResultID, req.ResultType); err != nil {
		h.logger.Error(c.Request.Context(), "Record click failed",
			logger.F("logID", req.LogID),
			logger.F("error", err.Error()))
		h.respondError(c, http.StatusInternalServerError, "record click failed", err.Error())
		return
	}

	h.respondSuccess(c, gin.H{"log_id": req.LogID})
}

// GetAnalytics 查询搜索分析报告，默认统计最近7天
func (h *HTTPHandler) GetAnalytics(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			h.respondError(c, http.StatusBadRequest, "invalid request", "invalid from time")
			return
		}
		from = parsed
	}
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			h.respondError(c, http.StatusBadRequest, "invalid request", "invalid to time")
			return
		}
		to = parsed
	}
	if !from.Before(to) {
		h.respondError(c, http.StatusBadRequest, "invalid request", "from must be before to")
		return
	}

	report, err := h.analyticsService.GetAnalytics(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error(c.Request.Context(), "Get analytics failed",
			logger.F("error", err.Error()))
		h.respondError(c, http.StatusInternalServerError, "get analytics failed", err.Error())
		return
	}

	h.respondSuccess(c, report)
}

// ============ 索引管理接口 ============

// SyncAll 触发全量索引重建，异步执行
func (h *HTTPHandler) SyncAll(c *gin.Context) {
	go func() {
		// 重建耗时可达分钟级，脱离请求context执行
		ctx := context.Background()
		if err := h.syncService.SyncAll(ctx); err != nil {
			h.logger.Error(ctx, "Full index sync failed", logger.F("error", err.Error()))
			return
		}
		h.logger.Info(ctx, "Full index sync completed")
	}()

	h.respondSuccess(c, gin.H{"status": "sync started"})
}

// SyncIndex 触发单个内容类型的索引重建，异步执行
func (h *HTTPHandler) SyncIndex(c *gin.Context) {
	searchType := c.Param("type")
	if !model.IsValidSearchType(searchType) || searchType == model.SearchTypeAll {
		h.respondError(c, http.StatusBadRequest, "invalid request", "unknown search type: "+searchType)
		return
	}

	go func() {
		ctx := context.Background()
		if err := h.syncService.SyncIndex(ctx, searchType); err != nil {
			h.logger.Error(ctx, "Index sync failed",
				logger.F("type", searchType),
				logger.F("error", err.Error()))
			return
		}
		h.logger.Info(ctx, "Index sync completed", logger.F("type", searchType))
	}()

	h.respondSuccess(c, gin.H{"status": "sync started", "type": searchType})
}

// ============ 健康检查 ============

// HealthCheck 健康检查
func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	if err := h.syncService.HealthCheck(c.Request.Context()); err != nil {
		h.respondError(c, http.StatusServiceUnavailable, "unhealthy", err.Error())
		return
	}

	h.respondSuccess(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}
