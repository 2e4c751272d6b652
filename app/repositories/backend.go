// Package repositories 存储端口：类型化的数据表读写操作，底层由 Backend 适配器实现
package repositories

import (
	"context"
)

// Op 过滤操作符
type Op string

const (
	OpEq       Op = "eq"
	OpIn       Op = "in"
	OpContains Op = "like"
)

// Filter 单列过滤条件
type Filter struct {
	Column string
	Op     Op
	Value  interface{}
}

// Eq 等值过滤
func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// In 集合过滤
func In(column string, values ...interface{}) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

// Contains 子串匹配过滤
func Contains(column string, value string) Filter {
	return Filter{Column: column, Op: OpContains, Value: value}
}

// Order 排序
type Order struct {
	Column string
	Desc   bool
}

// Asc 升序
func Asc(column string) Order {
	return Order{Column: column}
}

// Desc 降序
func Desc(column string) Order {
	return Order{Column: column, Desc: true}
}

// Query 查询条件
type Query struct {
	Filters []Filter
	Orders  []Order
	Limit   int
	Offset  int
}

// Backend 存储后端的最小原语集合
//
// 两个实现：GormBackend 直连数据库，RDBBackend 通过云开发关系型数据库 REST 接口访问。
// 返回的错误须已翻译为本包定义的错误（ErrDuplicate、ErrSchemaMissing 等）
type Backend interface {
	// Find 查询多行，dest 为模型切片指针
	Find(ctx context.Context, table string, q Query, dest interface{}) error
	// Count 统计行数
	Count(ctx context.Context, table string, filters ...Filter) (int64, error)
	// Insert 插入一行，row 为模型指针，写入后回填数据库生成的字段
	Insert(ctx context.Context, table string, row interface{}) error
	// Update 按条件更新，返回影响行数
	Update(ctx context.Context, table string, filters []Filter, values map[string]interface{}) (int64, error)
	// Probe 轻量读取指定列，用于探测数据表与字段是否存在
	Probe(ctx context.Context, table string, columns ...string) error
}
