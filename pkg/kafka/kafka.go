package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
)

// Producer 生产者
type Producer struct {
	syncProducer sarama.SyncProducer
}

// InitProducer 初始化生产者
func InitProducer(brokers []string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %v", err)
	}

	return &Producer{syncProducer: producer}, nil
}

// SendMessage 发送消息，key用于分区路由
func (p *Producer) SendMessage(topic string, key, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(value),
	}
	if len(key) > 0 {
		msg.Key = sarama.ByteEncoder(key)
	}

	if _, _, err := p.syncProducer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send message to %s: %v", topic, err)
	}

	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	return p.syncProducer.Close()
}
