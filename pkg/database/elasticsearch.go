package database

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchConfig Elasticsearch连接配置
type ElasticsearchConfig struct {
	Addresses []string
	Username  string
	Password  string
}

// Elasticsearch Elasticsearch客户端封装
type Elasticsearch struct {
	client *elasticsearch.Client
}

// NewElasticsearch 创建Elasticsearch连接并验证可达
func NewElasticsearch(cfg ElasticsearchConfig) (*Elasticsearch, error) {
	if len(cfg.Addresses) == 0 {
		cfg.Addresses = []string{"http://localhost:9200"}
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %v", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elasticsearch connection error: %s", res.String())
	}

	return &Elasticsearch{client: client}, nil
}

// GetClient 获取原生客户端
func (es *Elasticsearch) GetClient() *elasticsearch.Client {
	return es.client
}

// Ping 测试连接
func (es *Elasticsearch) Ping(ctx context.Context) error {
	res, err := es.client.Info()
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("Elasticsearch ping failed: %s", res.String())
	}

	return nil
}
