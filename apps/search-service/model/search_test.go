package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchRequestNormalize_Defaults(t *testing.T) {
	req := &SearchRequest{}
	req.Normalize(20, 100)

	assert.Equal(t, SearchTypeAll, req.Type)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.Limit)
	assert.Equal(t, SortOrderDesc, req.SortOrder)
	assert.Equal(t, SearchOperatorOr, req.SearchOperator)
}

func TestSearchRequestNormalize_ClampsLimit(t *testing.T) {
	req := &SearchRequest{Page: -3, Limit: 5000}
	req.Normalize(20, 100)

	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 100, req.Limit)
}

func TestSearchRequestNormalize_KeepsValidValues(t *testing.T) {
	req := &SearchRequest{
		Type:           SearchTypeCourses,
		Page:           3,
		Limit:          50,
		SortOrder:      SortOrderAsc,
		SearchOperator: SearchOperatorAnd,
	}
	req.Normalize(20, 100)

	assert.Equal(t, SearchTypeCourses, req.Type)
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, 50, req.Limit)
	assert.Equal(t, SortOrderAsc, req.SortOrder)
	assert.Equal(t, SearchOperatorAnd, req.SearchOperator)
}

func TestSearchRequestOffset(t *testing.T) {
	req := &SearchRequest{Page: 1, Limit: 20}
	assert.Equal(t, 0, req.Offset())

	req.Page = 4
	assert.Equal(t, 60, req.Offset())
}

func TestIndicesForSearchType(t *testing.T) {
	assert.Equal(t, []string{IndexPosts}, IndicesForSearchType(SearchTypePosts))

	all := IndicesForSearchType(SearchTypeAll)
	assert.Len(t, all, len(AllSearchTypes))
	assert.Contains(t, all, IndexPosts)
	assert.Contains(t, all, IndexCourses)
}

func TestSearchTypeIndexRoundTrip(t *testing.T) {
	for _, searchType := range AllSearchTypes {
		index := GetIndexBySearchType(searchType)
		assert.NotEmpty(t, index)
		assert.Equal(t, searchType, GetSearchTypeByIndex(index))
	}

	assert.Empty(t, GetIndexBySearchType("unknown"))
	assert.Empty(t, GetIndexBySearchType(SearchTypeAll))
}
