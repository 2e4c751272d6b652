package cloudbase

import (
	"context"
	"net/http"
	"net/url"
)

// Select 查询数据表，查询参数使用 REST 过滤语法（如 id=eq.1、order=created_at.desc）
func (c *Client) Select(ctx context.Context, table string, query url.Values) ([]byte, error) {
	auth, err := c.systemAuthHeader()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/v1/rdb/rest/" + table,
		query:   query,
		headers: map[string]string{"Authorization": auth},
	})
}

// Insert 插入一行，返回写入后的行数组
func (c *Client) Insert(ctx context.Context, table string, body interface{}) ([]byte, error) {
	auth, err := c.systemAuthHeader()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/v1/rdb/rest/" + table,
		headers: map[string]string{
			"Authorization": auth,
			"Prefer":        "return=representation",
		},
		body: body,
	})
}

// Update 按过滤条件更新，返回更新后的行数组
func (c *Client) Update(ctx context.Context, table string, query url.Values, body interface{}) ([]byte, error) {
	auth, err := c.systemAuthHeader()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/v1/rdb/rest/" + table,
		query:  query,
		headers: map[string]string{
			"Authorization": auth,
			"Prefer":        "return=representation",
		},
		body: body,
	})
}
