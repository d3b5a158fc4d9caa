package model

// ============ 搜索类型常量 ============

const (
	// 搜索类型
	SearchTypeAll         = "all"         // 全局搜索
	SearchTypePosts       = "posts"       // 帖子搜索
	SearchTypeComments    = "comments"    // 评论搜索
	SearchTypeUsers       = "users"       // 用户搜索
	SearchTypeCommunities = "communities" // 社区搜索
	SearchTypeCourses     = "courses"     // 课程搜索
)

// ============ 索引名称常量 ============

const (
	// ElasticSearch索引名称
	IndexPosts       = "coursehub-posts"
	IndexComments    = "coursehub-comments"
	IndexUsers       = "coursehub-users"
	IndexCommunities = "coursehub-communities"
	IndexCourses     = "coursehub-courses"
)

// ============ 排序方向常量 ============

const (
	SortOrderAsc  = "asc"  // 升序
	SortOrderDesc = "desc" // 降序
)

// ============ 匹配操作符常量 ============

const (
	SearchOperatorAnd = "and" // 所有词必须命中
	SearchOperatorOr  = "or"  // 任一词命中即可
)

// ============ 字段常量 ============

const (
	// 时间字段，过滤与时效加权都基于它
	FieldCreatedAt = "created_at"
	// 短语/邻近搜索使用的规范文本字段
	FieldContent = "content"
)

// DefaultSearchFields 默认的加权搜索字段
var DefaultSearchFields = []string{
	"title^3",
	"name^3",
	"username^3",
	"first_name^2",
	"last_name^2",
	"description^2",
	"content^1",
	"tags^1",
}

// HighlightFields 请求高亮片段的字段
var HighlightFields = []string{"title", "content", "description"}

// AllSearchTypes 除all以外的全部内容类型，同步按此顺序执行
var AllSearchTypes = []string{
	SearchTypePosts,
	SearchTypeComments,
	SearchTypeUsers,
	SearchTypeCommunities,
	SearchTypeCourses,
}

var indexBySearchType = map[string]string{
	SearchTypePosts:       IndexPosts,
	SearchTypeComments:    IndexComments,
	SearchTypeUsers:       IndexUsers,
	SearchTypeCommunities: IndexCommunities,
	SearchTypeCourses:     IndexCourses,
}

var searchTypeByIndex = map[string]string{
	IndexPosts:       SearchTypePosts,
	IndexComments:    SearchTypeComments,
	IndexUsers:       SearchTypeUsers,
	IndexCommunities: SearchTypeCommunities,
	IndexCourses:     SearchTypeCourses,
}

// GetIndexBySearchType 根据搜索类型获取索引名称
func GetIndexBySearchType(searchType string) string {
	return indexBySearchType[searchType]
}

// GetSearchTypeByIndex 根据索引名称获取搜索类型
func GetSearchTypeByIndex(index string) string {
	return searchTypeByIndex[index]
}

// IndicesForSearchType 解析搜索类型对应的索引列表
func IndicesForSearchType(searchType string) []string {
	if searchType == SearchTypeAll {
		indices := make([]string, 0, len(AllSearchTypes))
		for _, t := range AllSearchTypes {
			indices = append(indices, indexBySearchType[t])
		}
		return indices
	}

	if index := indexBySearchType[searchType]; index != "" {
		return []string{index}
	}
	return nil
}

// IsValidSearchType 检查搜索类型是否合法
func IsValidSearchType(searchType string) bool {
	if searchType == SearchTypeAll {
		return true
	}
	return indexBySearchType[searchType] != ""
}
