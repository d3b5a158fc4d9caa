package service

import (
	"coursehub/apps/search-service/model"
)

// ============ 索引映射 ============
// 文本字段带keyword子字段，建议聚合依赖它

// defaultIndexSettings 默认索引设置
func defaultIndexSettings() map[string]interface{} {
	return map[string]interface{}{
		"number_of_shards":   1,
		"number_of_replicas": 0,
		"refresh_interval":   "1s",
	}
}

// indexMapping 按内容类型取索引映射
func indexMapping(searchType string) map[string]interface{} {
	switch searchType {
	case model.SearchTypePosts:
		return postMapping()
	case model.SearchTypeComments:
		return commentMapping()
	case model.SearchTypeUsers:
		return userMapping()
	case model.SearchTypeCommunities:
		return communityMapping()
	case model.SearchTypeCourses:
		return courseMapping()
	default:
		return defaultMapping()
	}
}

// postMapping 帖子索引映射
func postMapping() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"id":              map[string]interface{}{"type": "long"},
			"title":           textWithKeyword(),
			"content":         textWithKeyword(),
			"tags":            map[string]interface{}{"type": "keyword"},
			"author_id":       map[string]interface{}{"type": "long"},
			"author_username": map[string]interface{}{"type": "keyword"},
			"author_name":     map[string]interface{}{"type": "keyword"},
			"community_id":    map[string]interface{}{"type": "long"},
			"community_name":  map[string]interface{}{"type": "keyword"},
			"community_slug":  map[string]interface{}{"type": "keyword"},
			"comment_count":   map[string]interface{}{"type": "long"},
			"reaction_count":  map[string]interface{}{"type": "long"},
			"created_at":      map[string]interface{}{"type": "date"},
			"updated_at":      map[string]interface{}{"type": "date"},
		},
	}
}

// commentMapping 评论索引映射
func commentMapping() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"id":              map[string]interface{}{"type": "long"},
			"content":         textWithKeyword(),
			"post_id":         map[string]interface{}{"type": "long"},
			"post_title":      textWithKeyword(),
			"community_id":    map[string]interface{}{"type": "long"},
			"author_id":       map[string]interface{}{"type": "long"},
			"author_username": map[string]interface{}{"type": "keyword"},
			"author_name":     map[string]interface{}{"type": "keyword"},
			"reaction_count":  map[string]interface{}{"type": "long"},
			"created_at":      map[string]interface{}{"type": "date"},
		},
	}
}

// userMapping 用户索引映射
func userMapping() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "long"},
			"username":    textWithKeyword(),
			"first_name":  textWithKeyword(),
			"last_name":   textWithKeyword(),
			"description": textWithKeyword(),
			"created_at":  map[string]interface{}{"type": "date"},
		},
	}
}

// communityMapping 社区索引映射
func communityMapping() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"id":           map[string]interface{}{"type": "long"},
			"name":         textWithKeyword(),
			"slug":         map[string]interface{}{"type": "keyword"},
			"description":  textWithKeyword(),
			"tags":         map[string]interface{}{"type": "keyword"},
			"member_count": map[string]interface{}{"type": "long"},
			"created_at":   map[string]interface{}{"type": "date"},
			"updated_at":   map[string]interface{}{"type": "date"},
		},
	}
}

// courseMapping 课程索引映射
func courseMapping() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"id":                  map[string]interface{}{"type": "long"},
			"title":               textWithKeyword(),
			"description":         textWithKeyword(),
			"category":            map[string]interface{}{"type": "keyword"},
			"tags":                map[string]interface{}{"type": "keyword"},
			"instructor_id":       map[string]interface{}{"type": "long"},
			"instructor_username": map[string]interface{}{"type": "keyword"},
			"instructor_name":     map[string]interface{}{"type": "keyword"},
			"enrollment_count":    map[string]interface{}{"type": "long"},
			"created_at":          map[string]interface{}{"type": "date"},
			"updated_at":          map[string]interface{}{"type": "date"},
		},
	}
}

// defaultMapping 默认映射
func defaultMapping() map[string]interface{} {
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"id":         map[string]interface{}{"type": "long"},
			"title":      textWithKeyword(),
			"content":    textWithKeyword(),
			"created_at": map[string]interface{}{"type": "date"},
		},
	}
}

// textWithKeyword 文本字段及其keyword子字段
func textWithKeyword() map[string]interface{} {
	return map[string]interface{}{
		"type": "text",
		"fields": map[string]interface{}{
			"keyword": map[string]interface{}{
				"type":         "keyword",
				"ignore_above": 256,
			},
		},
	}
}
