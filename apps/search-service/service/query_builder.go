package service

import (
	"regexp"
	"strings"
	"time"

	"coursehub/apps/search-service/model"
)

// ============ 查询构建器 ============

// queryBuilder 把搜索请求编译成后端查询体
// 纯计算无I/O，时钟注入后对同一输入输出确定
type queryBuilder struct {
	config *ServiceConfig
	now    func() time.Time
}

// newQueryBuilder 创建查询构建器
func newQueryBuilder(config *ServiceConfig) *queryBuilder {
	return &queryBuilder{
		config: config,
		now:    time.Now,
	}
}

// BuildSearchBody 构建通用搜索查询体
func (b *queryBuilder) BuildSearchBody(req *model.SearchRequest) map[string]interface{} {
	return map[string]interface{}{
		"from":      req.Offset(),
		"size":      req.Limit,
		"query":     b.buildBoolQuery(req),
		"sort":      b.buildSort(req),
		"aggs":      b.buildAggregations(),
		"highlight": b.buildHighlight(),
	}
}

// buildBoolQuery 构建布尔查询
// must承载匹配子句，should承载时效加分，filter承载过滤条件
func (b *queryBuilder) buildBoolQuery(req *model.SearchRequest) map[string]interface{} {
	boolQuery := map[string]interface{}{
		"must": []interface{}{b.buildMatchClause(req)},
	}

	if should := b.buildRecencyClauses(); len(should) > 0 {
		boolQuery["should"] = should
	}

	if filters := b.buildFilterClauses(req.Filters); len(filters) > 0 {
		boolQuery["filter"] = filters
	}

	return map[string]interface{}{"bool": boolQuery}
}

// buildMatchClause 按优先级选择匹配模式：短语 > 邻近 > 加权多字段
func (b *queryBuilder) buildMatchClause(req *model.SearchRequest) map[string]interface{} {
	if req.PhraseSearch && req.Query != "" {
		return map[string]interface{}{
			"match_phrase": map[string]interface{}{
				model.FieldContent: map[string]interface{}{
					"query": req.Query,
					"slop":  0,
				},
			},
		}
	}

	if req.Proximity != nil && len(req.Proximity.Terms) > 0 {
		return map[string]interface{}{
			"match_phrase": map[string]interface{}{
				model.FieldContent: map[string]interface{}{
					"query": strings.Join(req.Proximity.Terms, " "),
					"slop":  req.Proximity.Distance,
				},
			},
		}
	}

	if req.Query == "" {
		return map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	fields := req.SearchFields
	if len(fields) == 0 {
		fields = model.DefaultSearchFields
	}

	return map[string]interface{}{
		"multi_match": map[string]interface{}{
			"query":     req.Query,
			"fields":    fields,
			"type":      "best_fields",
			"fuzziness": "AUTO",
			"operator":  req.SearchOperator,
		},
	}
}

// buildRecencyClauses 构建时效加分子句
// should子句只加分不过滤，老文档仍可命中
func (b *queryBuilder) buildRecencyClauses() []interface{} {
	now := b.now().UTC()
	sevenDays := now.AddDate(0, 0, -7).Format(time.RFC3339)
	thirtyDays := now.AddDate(0, 0, -30).Format(time.RFC3339)

	return []interface{}{
		map[string]interface{}{
			"range": map[string]interface{}{
				model.FieldCreatedAt: map[string]interface{}{
					"gte":   sevenDays,
					"boost": b.config.RecencyBoost7d,
				},
			},
		},
		map[string]interface{}{
			"range": map[string]interface{}{
				model.FieldCreatedAt: map[string]interface{}{
					"gte":   thirtyDays,
					"lt":    sevenDays,
					"boost": b.config.RecencyBoost30d,
				},
			},
		},
	}
}

// buildFilterClauses 翻译类型化过滤条件，全部以AND组合且不参与评分
func (b *queryBuilder) buildFilterClauses(filters []model.Filter) []interface{} {
	if len(filters) == 0 {
		return nil
	}

	clauses := make([]interface{}, 0, len(filters))
	for _, f := range filters {
		switch filter := f.(type) {
		case model.ExactFilter:
			clauses = append(clauses, map[string]interface{}{
				"term": map[string]interface{}{filter.Key: filter.Value},
			})
		case model.MembershipFilter:
			clauses = append(clauses, map[string]interface{}{
				"terms": map[string]interface{}{filter.Key: filter.Values},
			})
		case model.RangeFilter:
			bounds := map[string]interface{}{}
			if filter.Min != nil {
				bounds["gte"] = *filter.Min
			}
			if filter.Max != nil {
				bounds["lte"] = *filter.Max
			}
			clauses = append(clauses, map[string]interface{}{
				"range": map[string]interface{}{filter.Key: bounds},
			})
		case model.DateRangeFilter:
			bounds := map[string]interface{}{}
			if filter.From != "" {
				bounds["gte"] = filter.From
			}
			if filter.To != "" {
				bounds["lte"] = filter.To
			}
			clauses = append(clauses, map[string]interface{}{
				"range": map[string]interface{}{model.FieldCreatedAt: bounds},
			})
		}
	}

	return clauses
}

// buildSort 构建排序
// 显式字段排序优先，否则按评分降序、创建时间降序兜底，保证同分稳定排序
func (b *queryBuilder) buildSort(req *model.SearchRequest) []interface{} {
	if req.SortField != "" {
		return []interface{}{
			map[string]interface{}{
				req.SortField: map[string]interface{}{"order": req.SortOrder},
			},
		}
	}

	return []interface{}{
		map[string]interface{}{
			"_score": map[string]interface{}{"order": model.SortOrderDesc},
		},
		map[string]interface{}{
			model.FieldCreatedAt: map[string]interface{}{"order": model.SortOrderDesc},
		},
	}
}

// buildAggregations 构建每次查询附带的聚合
func (b *queryBuilder) buildAggregations() map[string]interface{} {
	return map[string]interface{}{
		"content_types": map[string]interface{}{
			"terms": map[string]interface{}{
				"field": "_index",
				"size":  len(model.AllSearchTypes),
			},
		},
		"communities": map[string]interface{}{
			"terms": map[string]interface{}{
				"field": "community_id",
				"size":  10,
			},
		},
		"tags": map[string]interface{}{
			"terms": map[string]interface{}{
				"field": "tags",
				"size":  20,
			},
		},
		"created_per_day": map[string]interface{}{
			"date_histogram": map[string]interface{}{
				"field":             model.FieldCreatedAt,
				"calendar_interval": "day",
			},
		},
	}
}

// buildHighlight 构建高亮片段请求
func (b *queryBuilder) buildHighlight() map[string]interface{} {
	fields := map[string]interface{}{}
	for _, field := range model.HighlightFields {
		fields[field] = map[string]interface{}{
			"fragment_size":       150,
			"number_of_fragments": 3,
		}
	}

	return map[string]interface{}{
		"pre_tags":  []string{b.config.HighlightPreTag},
		"post_tags": []string{b.config.HighlightPostTag},
		"fields":    fields,
	}
}

// BuildSuggestBody 构建前缀建议查询体
// 对字段的keyword子字段做词条聚合，按文档频次降序取前size个
func (b *queryBuilder) BuildSuggestBody(prefix, field string, size int) map[string]interface{} {
	return map[string]interface{}{
		"size": 0,
		"aggs": map[string]interface{}{
			"suggestions": map[string]interface{}{
				"terms": map[string]interface{}{
					"field":   field + ".keyword",
					"include": regexp.QuoteMeta(prefix) + ".*",
					"size":    size,
					"order":   map[string]interface{}{"_count": "desc"},
				},
			},
		},
	}
}

// BuildSimilarBody 构建相似内容查询体
// 以源文档自身的文本字段作比较向量，源文档本身不会出现在结果里
func (b *queryBuilder) BuildSimilarBody(index, docID string, maxResults int) map[string]interface{} {
	return map[string]interface{}{
		"size": maxResults,
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"title", "content", "description", "tags"},
				"like": []interface{}{
					map[string]interface{}{
						"_index": index,
						"_id":    docID,
					},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
			},
		},
	}
}
