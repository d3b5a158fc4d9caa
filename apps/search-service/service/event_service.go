package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coursehub/pkg/kafka"
	"coursehub/pkg/logger"
)

// ============ 事件发布 ============

const (
	TopicSearchEvents = "search-events"
	TopicIndexEvents  = "index-events"

	eventSource = "search-service"
)

// kafkaEventService Kafka事件发布实现
type kafkaEventService struct {
	producer *kafka.Producer
	logger   logger.Logger
}

// NewKafkaEventService 创建Kafka事件发布实例
func NewKafkaEventService(producer *kafka.Producer, log logger.Logger) EventService {
	return &kafkaEventService{
		producer: producer,
		logger:   log,
	}
}

// PublishSearchEvent 发布搜索事件
func (s *kafkaEventService) PublishSearchEvent(ctx context.Context, event *SearchEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	if event.Source == "" {
		event.Source = eventSource
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal search event: %v", err)
	}

	if err := s.producer.SendMessage(TopicSearchEvents, []byte(event.Query), data); err != nil {
		return fmt.Errorf("failed to publish search event: %v", err)
	}

	return nil
}

// PublishIndexEvent 发布索引事件
func (s *kafkaEventService) PublishIndexEvent(ctx context.Context, event *IndexEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	if event.Source == "" {
		event.Source = eventSource
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal index event: %v", err)
	}

	if err := s.producer.SendMessage(TopicIndexEvents, []byte(event.IndexName), data); err != nil {
		return fmt.Errorf("failed to publish index event: %v", err)
	}

	return nil
}

// noopEventService 空事件发布实现，Kafka未启用时使用
type noopEventService struct{}

// NewNoopEventService 创建空事件发布实例
func NewNoopEventService() EventService {
	return &noopEventService{}
}

// PublishSearchEvent 空操作
func (s *noopEventService) PublishSearchEvent(ctx context.Context, event *SearchEvent) error {
	return nil
}

// PublishIndexEvent 空操作
func (s *noopEventService) PublishIndexEvent(ctx context.Context, event *IndexEvent) error {
	return nil
}
