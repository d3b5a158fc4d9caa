package model

import (
	"sort"
	"strconv"
	"strings"
)

// ============ 过滤条件模型 ============

// Filter 搜索过滤条件
// 在请求边界解析一次，查询编译阶段只按具体类型分发，不再嗅探值的形状
type Filter interface {
	FilterField() string
}

// ExactFilter 精确匹配过滤
type ExactFilter struct {
	Key   string
	Value interface{}
}

// FilterField 过滤字段名
func (f ExactFilter) FilterField() string { return f.Key }

// MembershipFilter 集合成员过滤，字段等于任一候选值即命中
type MembershipFilter struct {
	Key    string
	Values []interface{}
}

// FilterField 过滤字段名
func (f MembershipFilter) FilterField() string { return f.Key }

// RangeFilter 数值闭区间过滤
type RangeFilter struct {
	Key string
	Min *float64
	Max *float64
}

// FilterField 过滤字段名
func (f RangeFilter) FilterField() string { return f.Key }

// DateRangeFilter 创建时间闭区间过滤
type DateRangeFilter struct {
	From string
	To   string
}

// FilterField 过滤字段名
func (f DateRangeFilter) FilterField() string { return FieldCreatedAt }

const (
	filterKeyDateRange = "dateRange"
	rangeKeySuffix     = "Range"
)

// ParseFilters 解析原始过滤条件映射为类型化过滤列表
// 键按字典序处理，保证同一输入得到同一输出
func ParseFilters(raw map[string]interface{}) []Filter {
	if len(raw) == 0 {
		return nil
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	filters := make([]Filter, 0, len(keys))
	for _, key := range keys {
		if f := parseFilter(key, raw[key]); f != nil {
			filters = append(filters, f)
		}
	}

	if len(filters) == 0 {
		return nil
	}
	return filters
}

// parseFilter 按键名约定与值形状解析单个过滤条件
func parseFilter(key string, value interface{}) Filter {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []interface{}:
		if len(v) == 0 {
			return nil
		}
		return MembershipFilter{Key: key, Values: v}
	case []string:
		if len(v) == 0 {
			return nil
		}
		values := make([]interface{}, len(v))
		for i, s := range v {
			values[i] = s
		}
		return MembershipFilter{Key: key, Values: values}
	case bool:
		return ExactFilter{Key: key, Value: v}
	case map[string]interface{}:
		if key == filterKeyDateRange {
			return parseDateRange(v)
		}
		if strings.HasSuffix(key, rangeKeySuffix) && key != rangeKeySuffix {
			return parseNumericRange(strings.TrimSuffix(key, rangeKeySuffix), v)
		}
		return nil
	default:
		return ExactFilter{Key: key, Value: v}
	}
}

// parseDateRange 解析 {from, to} 形状的日期区间
func parseDateRange(v map[string]interface{}) Filter {
	from, _ := v["from"].(string)
	to, _ := v["to"].(string)
	if from == "" && to == "" {
		return nil
	}
	return DateRangeFilter{From: from, To: to}
}

// parseNumericRange 解析 {min, max} 形状的数值区间
func parseNumericRange(field string, v map[string]interface{}) Filter {
	min := toFloat(v["min"])
	max := toFloat(v["max"])
	if min == nil && max == nil {
		return nil
	}
	return RangeFilter{Key: field, Min: min, Max: max}
}

func toFloat(v interface{}) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return &f
		}
	}
	return nil
}
