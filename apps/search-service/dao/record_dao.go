package dao

import (
	"context"
	"fmt"

	"coursehub/apps/search-service/model"
	"coursehub/pkg/database"
	"coursehub/pkg/logger"
)

// recordDAO 关系库只读访问实现
type recordDAO struct {
	db     *database.PostgreSQL
	logger logger.Logger
}

// NewRecordDAO 创建关系库访问实例
func NewRecordDAO(db *database.PostgreSQL, log logger.Logger) RecordStore {
	return &recordDAO{
		db:     db,
		logger: log,
	}
}

// ============ 同步源数据分页读取 ============
// 软删除行由gorm的DeletedAt自动排除

// ListPosts 分页读取帖子及其作者、社区与快照计数
func (d *recordDAO) ListPosts(ctx context.Context, offset, limit int) ([]*model.PostRow, error) {
	var records []*model.PostRecord
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Community").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %v", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	commentCounts, err := d.countComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	reactionCounts, err := d.countReactions(ctx, "post", ids)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.PostRow, len(records))
	for i, r := range records {
		rows[i] = &model.PostRow{
			PostRecord:    *r,
			CommentCount:  commentCounts[r.ID],
			ReactionCount: reactionCounts[r.ID],
		}
	}
	return rows, nil
}

// ListComments 分页读取评论及其作者、所属帖子与快照计数
func (d *recordDAO) ListComments(ctx context.Context, offset, limit int) ([]*model.CommentRow, error) {
	var records []*model.CommentRecord
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Post").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %v", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	reactionCounts, err := d.countReactions(ctx, "comment", ids)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.CommentRow, len(records))
	for i, r := range records {
		rows[i] = &model.CommentRow{
			CommentRecord: *r,
			ReactionCount: reactionCounts[r.ID],
		}
	}
	return rows, nil
}

// ListUsers 分页读取用户
func (d *recordDAO) ListUsers(ctx context.Context, offset, limit int) ([]*model.UserRecord, error) {
	var records []*model.UserRecord
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %v", err)
	}

	return records, nil
}

// ListCommunities 分页读取社区
func (d *recordDAO) ListCommunities(ctx context.Context, offset, limit int) ([]*model.CommunityRecord, error) {
	var records []*model.CommunityRecord
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %v", err)
	}

	return records, nil
}

// ListCourses 分页读取课程及其讲师与快照计数
func (d *recordDAO) ListCourses(ctx context.Context, offset, limit int) ([]*model.CourseRow, error) {
	var records []*model.CourseRecord
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Preload("Instructor").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %v", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	enrollmentCounts, err := d.countEnrollments(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.CourseRow, len(records))
	for i, r := range records {
		rows[i] = &model.CourseRow{
			CourseRecord:    *r,
			EnrollmentCount: enrollmentCounts[r.ID],
		}
	}
	return rows, nil
}

// ============ 降级搜索 ============
// 关系库的子串匹配，无相关性评分，仅在搜索后端不可用时使用

// SearchPostsFallback 帖子标题/正文子串匹配
func (d *recordDAO) SearchPostsFallback(ctx context.Context, query string, communityID int64, offset, limit int) ([]*model.PostRow, int64, error) {
	db := d.db.GetDB()
	pattern := "%" + query + "%"

	tx := db.WithContext(ctx).
		Model(&model.PostRecord{}).
		Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	if communityID > 0 {
		tx = tx.Where("community_id = ?", communityID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count fallback posts: %v", err)
	}

	var records []*model.PostRecord
	err := tx.
		Preload("Author").
		Preload("Community").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search fallback posts: %v", err)
	}

	rows := make([]*model.PostRow, len(records))
	for i, r := range records {
		rows[i] = &model.PostRow{PostRecord: *r}
	}
	return rows, total, nil
}

// SearchUsersFallback 用户名/姓名子串匹配
func (d *recordDAO) SearchUsersFallback(ctx context.Context, query string, offset, limit int) ([]*model.UserRecord, int64, error) {
	db := d.db.GetDB()
	pattern := "%" + query + "%"

	tx := db.WithContext(ctx).
		Model(&model.UserRecord{}).
		Where("username ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern, pattern)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count fallback users: %v", err)
	}

	var records []*model.UserRecord
	err := tx.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search fallback users: %v", err)
	}

	return records, total, nil
}

// Health 检查关系库连接
func (d *recordDAO) Health(ctx context.Context) error {
	return d.db.Health(ctx)
}

// ============ 计数辅助 ============

type countRow struct {
	TargetID int64
	N        int64
}

// countComments 按帖子ID统计评论数
func (d *recordDAO) countComments(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	var rows []countRow
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Model(&model.CommentRecord{}).
		Select("post_id AS target_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %v", err)
	}

	return countMap(rows), nil
}

// countReactions 按目标ID统计表态数
func (d *recordDAO) countReactions(ctx context.Context, targetType string, targetIDs []int64) (map[int64]int64, error) {
	var rows []countRow
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Model(&model.ReactionRecord{}).
		Select("target_id, COUNT(*) AS n").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count reactions: %v", err)
	}

	return countMap(rows), nil
}

// countEnrollments 按课程ID统计选课数
func (d *recordDAO) countEnrollments(ctx context.Context, courseIDs []int64) (map[int64]int64, error) {
	var rows []countRow
	db := d.db.GetDB()

	err := db.WithContext(ctx).
		Model(&model.EnrollmentRecord{}).
		Select("course_id AS target_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %v", err)
	}

	return countMap(rows), nil
}

func countMap(rows []countRow) map[int64]int64 {
	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.TargetID] = row.N
	}
	return counts
}
