package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"coursehub/apps/search-service/dao"
	"coursehub/apps/search-service/model"
	"coursehub/pkg/logger"
)

// syncService 索引同步服务实现
// 关系库是唯一事实来源，索引文档可整体重建；本服务是索引的唯一写入方
type syncService struct {
	backend dao.QueryBackend
	records dao.RecordStore
	events  EventService
	config  *ServiceConfig
	logger  logger.Logger
}

// NewSyncService 创建索引同步服务实例
func NewSyncService(
	backend dao.QueryBackend,
	records dao.RecordStore,
	events EventService,
	config *ServiceConfig,
	log logger.Logger,
) SyncService {
	if config == nil {
		config = DefaultServiceConfig()
	}

	return &syncService{
		backend: backend,
		records: records,
		events:  events,
		config:  config,
		logger:  log,
	}
}

// ============ 同步操作 ============

// SyncAll 依次重建全部内容类型
// 任一类型失败立即中止后续类型并上抛错误
func (s *syncService) SyncAll(ctx context.Context) error {
	s.logger.Info(ctx, "Starting full index sync")

	for _, searchType := range model.AllSearchTypes {
		if err := s.SyncIndex(ctx, searchType); err != nil {
			return fmt.Errorf("failed to sync %s: %v", searchType, err)
		}
	}

	s.logger.Info(ctx, "Full index sync completed")
	return nil
}

// SyncIndex 重建单个内容类型
// 分页读取源数据行并按ID批量覆盖写入，重复执行结果一致
func (s *syncService) SyncIndex(ctx context.Context, searchType string) error {
	indexName := model.GetIndexBySearchType(searchType)
	if indexName == "" {
		return fmt.Errorf("%w: %s", ErrUnsupportedSearchType, searchType)
	}

	start := time.Now()
	batch := s.config.SyncBatchSize
	offset := 0
	total := 0

	for {
		documents, err := s.fetchBatch(ctx, searchType, offset, batch)
		if err != nil {
			s.logger.Error(ctx, "Failed to read sync source rows",
				logger.F("search_type", searchType),
				logger.F("offset", offset),
				logger.F("error", err.Error()))
			return err
		}
		if len(documents) == 0 {
			break
		}

		if err := s.backend.BulkIndex(ctx, indexName, documents); err != nil {
			return fmt.Errorf("failed to bulk index %s: %v", indexName, err)
		}

		total += len(documents)
		if len(documents) < batch {
			break
		}
		offset += batch
	}

	event := &IndexEvent{
		Action:    "sync",
		IndexName: indexName,
		Documents: total,
		Timestamp: time.Now().Unix(),
		Source:    "search-service",
	}
	if err := s.events.PublishIndexEvent(ctx, event); err != nil {
		s.logger.Warn(ctx, "Failed to publish index event",
			logger.F("index", indexName),
			logger.F("error", err.Error()))
	}

	s.logger.Info(ctx, "Index sync completed",
		logger.F("index", indexName),
		logger.F("documents", total),
		logger.F("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

// fetchBatch 读取一批源数据行并构建索引文档
func (s *syncService) fetchBatch(ctx context.Context, searchType string, offset, limit int) ([]dao.BulkDocument, error) {
	switch searchType {
	case model.SearchTypePosts:
		rows, err := s.records.ListPosts(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		documents := make([]dao.BulkDocument, len(rows))
		for i, row := range rows {
			documents[i] = dao.BulkDocument{
				ID:       strconv.FormatInt(row.ID, 10),
				Document: model.NewPostDocument(row),
			}
		}
		return documents, nil

	case model.SearchTypeComments:
		rows, err := s.records.ListComments(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		documents := make([]dao.BulkDocument, len(rows))
		for i, row := range rows {
			documents[i] = dao.BulkDocument{
				ID:       strconv.FormatInt(row.ID, 10),
				Document: model.NewCommentDocument(row),
			}
		}
		return documents, nil

	case model.SearchTypeUsers:
		records, err := s.records.ListUsers(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		documents := make([]dao.BulkDocument, len(records))
		for i, record := range records {
			documents[i] = dao.BulkDocument{
				ID:       strconv.FormatInt(record.ID, 10),
				Document: model.NewUserDocument(record),
			}
		}
		return documents, nil

	case model.SearchTypeCommunities:
		records, err := s.records.ListCommunities(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		documents := make([]dao.BulkDocument, len(records))
		for i, record := range records {
			documents[i] = dao.BulkDocument{
				ID:       strconv.FormatInt(record.ID, 10),
				Document: model.NewCommunityDocument(record),
			}
		}
		return documents, nil

	case model.SearchTypeCourses:
		rows, err := s.records.ListCourses(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		documents := make([]dao.BulkDocument, len(rows))
		for i, row := range rows {
			documents[i] = dao.BulkDocument{
				ID:       strconv.FormatInt(row.ID, 10),
				Document: model.NewCourseDocument(row),
			}
		}
		return documents, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSearchType, searchType)
	}
}

// ============ 索引管理 ============

// EnsureIndices 确保全部内容类型的索引存在
func (s *syncService) EnsureIndices(ctx context.Context) error {
	for _, searchType := range model.AllSearchTypes {
		indexName := model.GetIndexBySearchType(searchType)
		mapping := indexMapping(searchType)

		if err := s.backend.EnsureIndex(ctx, indexName, mapping, defaultIndexSettings()); err != nil {
			return fmt.Errorf("failed to ensure index %s: %v", indexName, err)
		}
	}
	return nil
}

// HealthCheck 检查搜索后端与关系库连接
func (s *syncService) HealthCheck(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return fmt.Errorf("search backend health check failed: %v", err)
	}
	if err := s.records.Health(ctx); err != nil {
		return fmt.Errorf("record store health check failed: %v", err)
	}
	return nil
}
