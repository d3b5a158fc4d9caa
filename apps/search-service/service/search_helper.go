package service

import (
	"strconv"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/model"
)

// ============ 结果转换辅助 ============

// convertSearchResponse 把后端响应转换为搜索结果集
func convertSearchResponse(resp *dao.SearchResponse) *model.SearchResult {
	hits := make([]*model.ResultHit, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		hits = append(hits, &model.ResultHit{
			ID:        hit.ID,
			Index:     hit.Index,
			Type:      model.GetSearchTypeByIndex(hit.Index),
			Score:     hit.Score,
			Source:    hit.Source,
			Highlight: hit.Highlight,
		})
	}

	return &model.SearchResult{
		Hits:         hits,
		Total:        resp.Hits.Total.Value,
		Aggregations: convertAggregations(resp.Aggregations),
		TookMs:       resp.Took,
	}
}

// convertAggregations 把后端聚合响应压平成桶列表
// content_types聚合的桶键是索引名，转换回内容类型
func convertAggregations(raw map[string]interface{}) map[string][]model.FacetBucket {
	if len(raw) == 0 {
		return nil
	}

	aggs := make(map[string][]model.FacetBucket, len(raw))
	for name, value := range raw {
		agg, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		rawBuckets, ok := agg["buckets"].([]interface{})
		if !ok {
			continue
		}

		buckets := make([]model.FacetBucket, 0, len(rawBuckets))
		for _, rb := range rawBuckets {
			bucketMap, ok := rb.(map[string]interface{})
			if !ok {
				continue
			}

			bucket := model.FacetBucket{Key: bucketKey(bucketMap)}
			if name == "content_types" {
				if searchType := model.GetSearchTypeByIndex(bucket.Key); searchType != "" {
					bucket.Key = searchType
				}
			}
			if count, ok := bucketMap["doc_count"].(float64); ok {
				bucket.Count = int64(count)
			}
			buckets = append(buckets, bucket)
		}
		aggs[name] = buckets
	}

	return aggs
}

// bucketKey 取桶键，日期直方图优先用格式化串
func bucketKey(bucket map[string]interface{}) string {
	if key, ok := bucket["key_as_string"].(string); ok {
		return key
	}

	switch key := bucket["key"].(type) {
	case string:
		return key
	case float64:
		if key == float64(int64(key)) {
			return strconv.FormatInt(int64(key), 10)
		}
		return strconv.FormatFloat(key, 'f', -1, 64)
	default:
		return ""
	}
}

// convertSuggestions 从词条聚合响应解析建议列表
func convertSuggestions(resp *dao.SearchResponse) []model.Suggestion {
	suggestions := make([]model.Suggestion, 0)

	agg, ok := resp.Aggregations["suggestions"].(map[string]interface{})
	if !ok {
		return suggestions
	}
	rawBuckets, ok := agg["buckets"].([]interface{})
	if !ok {
		return suggestions
	}

	for _, rb := range rawBuckets {
		bucketMap, ok := rb.(map[string]interface{})
		if !ok {
			continue
		}

		suggestion := model.Suggestion{}
		if text, ok := bucketMap["key"].(string); ok {
			suggestion.Text = text
		}
		if count, ok := bucketMap["doc_count"].(float64); ok {
			suggestion.Count = int64(count)
		}
		if suggestion.Text != "" {
			suggestions = append(suggestions, suggestion)
		}
	}

	return suggestions
}

// ============ 降级结果转换 ============
// 降级路径无相关性评分，score一律为0且不带高亮

// postRowToHit 帖子行转结果项
func postRowToHit(row *model.PostRow) *model.ResultHit {
	doc := model.NewPostDocument(row)
	return &model.ResultHit{
		ID:    strconv.FormatInt(row.ID, 10),
		Index: model.IndexPosts,
		Type:  model.SearchTypePosts,
		Source: map[string]interface{}{
			"id":              doc.ID,
			"title":           doc.Title,
			"content":         doc.Content,
			"tags":            doc.Tags,
			"author_id":       doc.AuthorID,
			"author_username": doc.AuthorUsername,
			"author_name":     doc.AuthorName,
			"community_id":    doc.CommunityID,
			"community_name":  doc.CommunityName,
			"community_slug":  doc.CommunitySlug,
			"created_at":      doc.CreatedAt,
		},
	}
}

// userRecordToHit 用户记录转结果项
func userRecordToHit(record *model.UserRecord) *model.ResultHit {
	doc := model.NewUserDocument(record)
	return &model.ResultHit{
		ID:    strconv.FormatInt(record.ID, 10),
		Index: model.IndexUsers,
		Type:  model.SearchTypeUsers,
		Source: map[string]interface{}{
			"id":          doc.ID,
			"username":    doc.Username,
			"first_name":  doc.FirstName,
			"last_name":   doc.LastName,
			"description": doc.Description,
			"created_at":  doc.CreatedAt,
		},
	}
}
