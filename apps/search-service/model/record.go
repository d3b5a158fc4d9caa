package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ============ 关系库记录模型 ============
// 关系库是唯一事实来源，本服务只读这些表（search_logs除外）

// UserRecord 用户表
type UserRecord struct {
	ID        int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string         `json:"username" gorm:"type:varchar(100);not null;uniqueIndex"`
	FirstName string         `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string         `json:"last_name" gorm:"type:varchar(100)"`
	Bio       string         `json:"bio" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 表名
func (UserRecord) TableName() string {
	return "users"
}

// FullName 姓名拼接
func (u *UserRecord) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// CommunityRecord 社区表
type CommunityRecord struct {
	ID          int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string         `json:"name" gorm:"type:varchar(200);not null"`
	Slug        string         `json:"slug" gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string         `json:"description" gorm:"type:text"`
	Tags        string         `json:"tags" gorm:"type:text"` // 逗号分隔
	OwnerID     int64          `json:"owner_id" gorm:"index"`
	MemberCount int64          `json:"member_count" gorm:"default:0"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 表名
func (CommunityRecord) TableName() string {
	return "communities"
}

// PostRecord 帖子表
type PostRecord struct {
	ID          int64           `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string          `json:"title" gorm:"type:varchar(500);not null"`
	Content     string          `json:"content" gorm:"type:text"`
	Tags        string          `json:"tags" gorm:"type:text"` // 逗号分隔
	AuthorID    int64           `json:"author_id" gorm:"not null;index"`
	Author      UserRecord      `json:"author" gorm:"foreignKey:AuthorID"`
	CommunityID int64           `json:"community_id" gorm:"index"`
	Community   CommunityRecord `json:"community" gorm:"foreignKey:CommunityID"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// TableName 表名
func (PostRecord) TableName() string {
	return "posts"
}

// CommentRecord 评论表
type CommentRecord struct {
	ID        int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	PostID    int64          `json:"post_id" gorm:"not null;index"`
	Post      PostRecord     `json:"post" gorm:"foreignKey:PostID"`
	AuthorID  int64          `json:"author_id" gorm:"not null;index"`
	Author    UserRecord     `json:"author" gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 表名
func (CommentRecord) TableName() string {
	return "comments"
}

// CourseRecord 课程表
type CourseRecord struct {
	ID           int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Title        string         `json:"title" gorm:"type:varchar(500);not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Category     string         `json:"category" gorm:"type:varchar(100);index"`
	Tags         string         `json:"tags" gorm:"type:text"` // 逗号分隔
	InstructorID int64          `json:"instructor_id" gorm:"not null;index"`
	Instructor   UserRecord     `json:"instructor" gorm:"foreignKey:InstructorID"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 表名
func (CourseRecord) TableName() string {
	return "courses"
}

// ReactionRecord 点赞/表态表，同步时只用于计数
type ReactionRecord struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TargetType string    `json:"target_type" gorm:"type:varchar(20);not null;index:idx_reactions_target"`
	TargetID   int64     `json:"target_id" gorm:"not null;index:idx_reactions_target"`
	UserID     int64     `json:"user_id" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 表名
func (ReactionRecord) TableName() string {
	return "reactions"
}

// EnrollmentRecord 选课表，同步时只用于计数
type EnrollmentRecord struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	CourseID  int64     `json:"course_id" gorm:"not null;index"`
	UserID    int64     `json:"user_id" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 表名
func (EnrollmentRecord) TableName() string {
	return "enrollments"
}

// ============ 同步读取的行模型 ============
// 计数为同步时刻的快照，不保证实时

// PostRow 帖子行及其快照计数
type PostRow struct {
	PostRecord
	CommentCount  int64
	ReactionCount int64
}

// CommentRow 评论行及其快照计数
type CommentRow struct {
	CommentRecord
	ReactionCount int64
}

// CourseRow 课程行及其快照计数
type CourseRow struct {
	CourseRecord
	EnrollmentCount int64
}

// SplitTags 逗号分隔的标签串转列表
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}

	if len(tags) == 0 {
		return nil
	}
	return tags
}
