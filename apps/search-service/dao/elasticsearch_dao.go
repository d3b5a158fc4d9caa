package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"coursehub/pkg/logger"
)

// elasticsearchDAO ElasticSearch搜索后端实现
type elasticsearchDAO struct {
	client *elasticsearch.Client
	logger logger.Logger
}

// NewElasticsearchDAO 创建ElasticSearch后端实例
func NewElasticsearchDAO(client *elasticsearch.Client, log logger.Logger) QueryBackend {
	return &elasticsearchDAO{
		client: client,
		logger: log,
	}
}

// ============ 搜索操作 ============

// Search 在指定索引上执行查询体
func (d *elasticsearchDAO) Search(ctx context.Context, indices []string, body map[string]interface{}) (*SearchResponse, error) {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %v", err)
	}

	req := esapi.SearchRequest{
		Index: indices,
		Body:  bytes.NewReader(bodyJSON),
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		d.logger.Error(ctx, "Failed to execute search",
			logger.F("indices", indices),
			logger.F("error", err.Error()))
		return nil, fmt.Errorf("failed to execute search: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search failed: %s", res.String())
	}

	var response SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %v", err)
	}

	return &response, nil
}

// ============ 批量写入 ============

// BulkIndex 按ID批量覆盖写入文档
// Refresh为true，批量完成后索引立即可查
func (d *elasticsearchDAO) BulkIndex(ctx context.Context, indexName string, documents []BulkDocument) error {
	if len(documents) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range documents {
		meta := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": indexName,
				"_id":    doc.ID,
			},
		}
		metaJSON, _ := json.Marshal(meta)
		buf.Write(metaJSON)
		buf.WriteByte('\n')

		docJSON, err := json.Marshal(doc.Document)
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %v", doc.ID, err)
		}
		buf.Write(docJSON)
		buf.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true",
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		d.logger.Error(ctx, "Failed to bulk index documents",
			logger.F("index", indexName),
			logger.F("count", len(documents)),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to bulk index documents: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to bulk index documents: %s", res.String())
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return fmt.Errorf("failed to decode bulk response: %v", err)
	}

	if bulkResponse.Errors {
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Status >= 400 {
					return fmt.Errorf("bulk index had failures: %s: %s", op.Error.Type, op.Error.Reason)
				}
			}
		}
		return fmt.Errorf("bulk index had failures")
	}

	d.logger.Info(ctx, "Bulk index completed",
		logger.F("index", indexName),
		logger.F("count", len(documents)))
	return nil
}

// ============ 索引管理 ============

// EnsureIndex 确保索引存在，不存在则按映射创建
func (d *elasticsearchDAO) EnsureIndex(ctx context.Context, indexName string, mapping map[string]interface{}, settings map[string]interface{}) error {
	exists, err := d.indexExists(ctx, indexName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	indexConfig := map[string]interface{}{
		"mappings": mapping,
		"settings": settings,
	}

	configJSON, err := json.Marshal(indexConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal index config: %v", err)
	}

	req := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(configJSON),
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		d.logger.Error(ctx, "Failed to create index",
			logger.F("index", indexName),
			logger.F("error", err.Error()))
		return fmt.Errorf("failed to create index: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to create index: %s", res.String())
	}

	d.logger.Info(ctx, "Index created successfully",
		logger.F("index", indexName))
	return nil
}

// indexExists 检查索引是否存在
func (d *elasticsearchDAO) indexExists(ctx context.Context, indexName string) (bool, error) {
	req := esapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		return false, fmt.Errorf("failed to check index existence: %v", err)
	}
	defer res.Body.Close()

	return res.StatusCode == 200, nil
}

// Ping 检查ElasticSearch连接
func (d *elasticsearchDAO) Ping(ctx context.Context) error {
	req := esapi.PingRequest{}

	res, err := req.Do(ctx, d.client)
	if err != nil {
		return fmt.Errorf("failed to ping elasticsearch: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping failed: %s", res.String())
	}

	return nil
}
