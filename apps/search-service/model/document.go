package model

import (
	"time"
)

// ============ 索引文档模型 ============
// 反规范化投影：关联摘要与计数在同步时刻展开，索引重建即可恢复

// PostDocument 帖子索引文档
type PostDocument struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Tags           []string  `json:"tags,omitempty"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorName     string    `json:"author_name,omitempty"`
	CommunityID    int64     `json:"community_id,omitempty"`
	CommunityName  string    `json:"community_name,omitempty"`
	CommunitySlug  string    `json:"community_slug,omitempty"`
	CommentCount   int64     `json:"comment_count"`
	ReactionCount  int64     `json:"reaction_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewPostDocument 由帖子行构建索引文档
func NewPostDocument(row *PostRow) *PostDocument {
	return &PostDocument{
		ID:             row.ID,
		Title:          row.Title,
		Content:        row.Content,
		Tags:           SplitTags(row.Tags),
		AuthorID:       row.AuthorID,
		AuthorUsername: row.Author.Username,
		AuthorName:     row.Author.FullName(),
		CommunityID:    row.CommunityID,
		CommunityName:  row.Community.Name,
		CommunitySlug:  row.Community.Slug,
		CommentCount:   row.CommentCount,
		ReactionCount:  row.ReactionCount,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

// CommentDocument 评论索引文档
type CommentDocument struct {
	ID             int64     `json:"id"`
	Content        string    `json:"content"`
	PostID         int64     `json:"post_id"`
	PostTitle      string    `json:"post_title,omitempty"`
	CommunityID    int64     `json:"community_id,omitempty"`
	AuthorID       int64     `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	AuthorName     string    `json:"author_name,omitempty"`
	ReactionCount  int64     `json:"reaction_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewCommentDocument 由评论行构建索引文档
func NewCommentDocument(row *CommentRow) *CommentDocument {
	return &CommentDocument{
		ID:             row.ID,
		Content:        row.Content,
		PostID:         row.PostID,
		PostTitle:      row.Post.Title,
		CommunityID:    row.Post.CommunityID,
		AuthorID:       row.AuthorID,
		AuthorUsername: row.Author.Username,
		AuthorName:     row.Author.FullName(),
		ReactionCount:  row.ReactionCount,
		CreatedAt:      row.CreatedAt,
	}
}

// UserDocument 用户索引文档
type UserDocument struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserDocument 由用户记录构建索引文档
func NewUserDocument(record *UserRecord) *UserDocument {
	return &UserDocument{
		ID:          record.ID,
		Username:    record.Username,
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		Description: record.Bio,
		CreatedAt:   record.CreatedAt,
	}
}

// CommunityDocument 社区索引文档
type CommunityDocument struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCommunityDocument 由社区记录构建索引文档
func NewCommunityDocument(record *CommunityRecord) *CommunityDocument {
	return &CommunityDocument{
		ID:          record.ID,
		Name:        record.Name,
		Slug:        record.Slug,
		Description: record.Description,
		Tags:        SplitTags(record.Tags),
		MemberCount: record.MemberCount,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

// CourseDocument 课程索引文档
type CourseDocument struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category,omitempty"`
	Tags               []string  `json:"tags,omitempty"`
	InstructorID       int64     `json:"instructor_id"`
	InstructorUsername string    `json:"instructor_username"`
	InstructorName     string    `json:"instructor_name,omitempty"`
	EnrollmentCount    int64     `json:"enrollment_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewCourseDocument 由课程行构建索引文档
func NewCourseDocument(row *CourseRow) *CourseDocument {
	return &CourseDocument{
		ID:                 row.ID,
		Title:              row.Title,
		Description:        row.Description,
		Category:           row.Category,
		Tags:               SplitTags(row.Tags),
		InstructorID:       row.InstructorID,
		InstructorUsername: row.Instructor.Username,
		InstructorName:     row.Instructor.FullName(),
		EnrollmentCount:    row.EnrollmentCount,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}
