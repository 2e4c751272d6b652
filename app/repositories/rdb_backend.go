package repositories

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cast"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/cloudbase"
)

// RDBClient 关系型数据库 REST 接口，由 cloudbase.Client 实现
type RDBClient interface {
	Select(ctx context.Context, table string, query url.Values) ([]byte, error)
	Insert(ctx context.Context, table string, body interface{}) ([]byte, error)
	Update(ctx context.Context, table string, query url.Values, body interface{}) ([]byte, error)
}

// RDBBackend 通过云开发关系型数据库 REST 接口访问的存储后端
type RDBBackend struct {
	client RDBClient
}

// NewRDBBackend 创建 REST 后端
func NewRDBBackend(client RDBClient) *RDBBackend {
	return &RDBBackend{client: client}
}

// Find 查询多行
func (b *RDBBackend) Find(ctx context.Context, table string, q Query, dest interface{}) error {
	params := filterParams(q.Filters)
	if len(q.Orders) > 0 {
		orders := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			orders = append(orders, o.Column+"."+dir)
		}
		params.Set("order", strings.Join(orders, ","))
	}
	if q.Limit > 0 {
		params.Set("limit", cast.ToString(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", cast.ToString(q.Offset))
	}

	body, err := b.client.Select(ctx, table, params)
	if err != nil {
		return translateRDBError(err)
	}
	return decodeRows(body, dest)
}

// Count 统计行数。REST 接口没有计数原语，只取 id 列后计数
func (b *RDBBackend) Count(ctx context.Context, table string, filters ...Filter) (int64, error) {
	params := filterParams(filters)
	params.Set("select", "id")

	body, err := b.client.Select(ctx, table, params)
	if err != nil {
		return 0, translateRDBError(err)
	}
	var rows []json.RawMessage
	if err := decodeRows(body, &rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// Insert 插入一行，并以返回的记录回填 row
func (b *RDBBackend) Insert(ctx context.Context, table string, row interface{}) error {
	payload, err := insertPayload(row)
	if err != nil {
		return err
	}

	body, err := b.client.Insert(ctx, table, payload)
	if err != nil {
		return translateRDBError(err)
	}

	var rows []json.RawMessage
	if err := decodeRows(body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("insert %s: %w", table, ErrEmptyResult)
	}
	return json.Unmarshal(rows[0], row)
}

// Update 按条件更新
func (b *RDBBackend) Update(ctx context.Context, table string, filters []Filter, values map[string]interface{}) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("update %s without filters", table)
	}

	body, err := b.client.Update(ctx, table, filterParams(filters), scalarValues(values))
	if err != nil {
		return 0, translateRDBError(err)
	}
	var rows []json.RawMessage
	if err := decodeRows(body, &rows); err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

// Probe 探测数据表与字段
func (b *RDBBackend) Probe(ctx context.Context, table string, columns ...string) error {
	params := url.Values{}
	if len(columns) > 0 {
		params.Set("select", strings.Join(columns, ","))
	}
	params.Set("limit", "1")
	_, err := b.client.Select(ctx, table, params)
	return translateRDBError(err)
}

// filterParams 转换为 REST 过滤语法：col=eq.v、col=in.(a,b)、col=like.%v%
func filterParams(filters []Filter) url.Values {
	params := url.Values{}
	for _, f := range filters {
		switch f.Op {
		case OpIn:
			values := f.Value.([]interface{})
			parts := make([]string, 0, len(values))
			for _, v := range values {
				parts = append(parts, cast.ToString(v))
			}
			params.Add(f.Column, "in.("+strings.Join(parts, ",")+")")
		case OpContains:
			params.Add(f.Column, "like.%"+cast.ToString(f.Value)+"%")
		default:
			params.Add(f.Column, "eq."+cast.ToString(f.Value))
		}
	}
	return params
}

func decodeRows(body []byte, dest interface{}) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode rows: %w", err)
	}
	return nil
}

// insertPayload 序列化待写入的行：去掉由数据库生成的空主键与空值，数组与对象按 JSON 文本写入
func insertPayload(row interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	payload := map[string]interface{}{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}

	for k, v := range payload {
		if v == nil || (k == "id" && cast.ToInt64(v) == 0) {
			delete(payload, k)
		}
	}
	return scalarValues(payload), nil
}

// scalarValues 数组与对象按 JSON 文本写入，自定义类型按其数据库取值写入
func scalarValues(values map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		switch tv := v.(type) {
		case []interface{}, map[string]interface{}, []string:
			b, _ := json.Marshal(v)
			out[k] = string(b)
		case driver.Valuer:
			out[k], _ = tv.Value()
		default:
			out[k] = v
		}
	}
	return out
}

// REST 响应体中的错误特征
var (
	rdbDuplicateMarkers = []string{"Duplicate", "duplicate", "UNIQUE", "unique"}
	rdbSchemaMarkers    = []string{"RESOURCE_NOT_FOUND", "column", "does not exist", "Unknown column"}
)

// translateRDBError 翻译为存储层错误
func translateRDBError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *cloudbase.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	text := string(apiErr.Payload)
	switch {
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case containsAny(text, rdbDuplicateMarkers):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case containsAny(text, rdbSchemaMarkers):
		return fmt.Errorf("%w: %w", ErrSchemaMissing, err)
	}
	return err
}
