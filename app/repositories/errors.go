package repositories

import "errors"

// 存储层错误。各存储适配器负责把底层错误（SQL 驱动错误、REST 响应体）翻译为以下错误，
// 业务代码只依赖这些错误判断，不再解析错误文本
var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("duplicate record")
	// ErrSchemaMissing 数据表或字段尚未迁移
	ErrSchemaMissing = errors.New("schema missing")
	// ErrUnauthorized 存储服务拒绝了服务端凭证
	ErrUnauthorized = errors.New("storage unauthorized")
	// ErrEmptyResult 写入成功但未返回记录
	ErrEmptyResult = errors.New("empty write result")
)
