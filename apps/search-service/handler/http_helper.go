package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"coursehub/apps/search-service/model"
)

// ============ HTTP响应结构 ============

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ============ 响应辅助方法 ============

// respondSuccess 成功响应
func (h *HTTPHandler) respondSuccess(c *gin.Context, data interface{}) {
	response := Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
	c.JSON(http.StatusOK, response)
}

// respondError 错误响应
func (h *HTTPHandler) respondError(c *gin.Context, statusCode int, message string, error string) {
	response := Response{
		Code:    statusCode,
		Message: message,
		Error:   error,
	}
	c.JSON(statusCode, response)
}

// ============ 请求绑定辅助方法 ============

// bindSearchRequest 绑定搜索请求查询参数
func (h *HTTPHandler) bindSearchRequest(c *gin.Context, req *model.SearchRequest) error {
	req.Query = c.Query("q")
	if req.Query == "" {
		req.Query = c.Query("query")
	}

	req.Type = c.DefaultQuery("type", model.SearchTypeAll)
	if !model.IsValidSearchType(req.Type) {
		return fmt.Errorf("unknown search type: %s", req.Type)
	}

	// 分页参数，越界值交由Normalize兜底
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		req.Limit = limit
	}

	// 排序参数
	req.SortField = c.Query("sort_by")
	req.SortOrder = c.DefaultQuery("sort_order", model.SortOrderDesc)

	// 多字段检索参数
	if fields := c.Query("search_fields"); fields != "" {
		req.SearchFields = strings.Split(fields, ",")
	}
	req.SearchOperator = c.Query("search_operator")

	// 短语/邻近检索参数，短语优先
	if phrase, err := strconv.ParseBool(c.DefaultQuery("phrase", "false")); err == nil {
		req.PhraseSearch = phrase
	}
	if terms := c.Query("proximity_terms"); terms != "" {
		distance, err := strconv.Atoi(c.DefaultQuery("proximity_distance", "5"))
		if err != nil || distance < 0 {
			return fmt.Errorf("invalid proximity_distance")
		}
		req.Proximity = &model.ProximityQuery{
			Terms:    strings.Split(terms, ","),
			Distance: distance,
		}
	}

	filters, err := h.bindFilters(c)
	if err != nil {
		return err
	}
	req.Filters = filters

	req.UserID = h.getUserID(c)
	return nil
}

// bindFilters 解析过滤条件
// 支持两种形态：filters参数携带整个JSON对象，以及filter_<key>=<value>参数
// 同名filter_参数重复出现时按集合成员过滤处理，JSON形态优先
func (h *HTTPHandler) bindFilters(c *gin.Context) ([]model.Filter, error) {
	raw := make(map[string]interface{})

	if filtersJSON := c.Query("filters"); filtersJSON != "" {
		if err := json.Unmarshal([]byte(filtersJSON), &raw); err != nil {
			return nil, fmt.Errorf("invalid filters json: %v", err)
		}
	}

	for key, values := range c.Request.URL.Query() {
		if !strings.HasPrefix(key, "filter_") || len(values) == 0 {
			continue
		}
		filterKey := strings.TrimPrefix(key, "filter_")
		if filterKey == "" {
			continue
		}
		if _, exists := raw[filterKey]; exists {
			continue
		}
		// 参数重复出现时视为集合成员过滤
		if len(values) > 1 {
			candidates := make([]interface{}, len(values))
			for i, v := range values {
				candidates[i] = v
			}
			raw[filterKey] = candidates
			continue
		}
		raw[filterKey] = values[0]
	}

	if len(raw) == 0 {
		return nil, nil
	}
	return model.ParseFilters(raw), nil
}

// getUserID 获取调用方用户ID，仅用于分析日志
func (h *HTTPHandler) getUserID(c *gin.Context) int64 {
	if userIDStr := c.GetHeader("X-User-ID"); userIDStr != "" {
		if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil {
			return userID
		}
	}

	if userIDStr := c.Query("user_id"); userIDStr != "" {
		if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil {
			return userID
		}
	}

	return 0
}
