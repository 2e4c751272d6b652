package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/database"
)

// GormBackend 直连数据库的存储后端
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend 创建直连后端
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// NewDatabaseBackend 使用全局数据库连接创建直连后端
func NewDatabaseBackend() *GormBackend {
	return NewGormBackend(database.DB)
}

// Find 查询多行
func (b *GormBackend) Find(ctx context.Context, table string, q Query, dest interface{}) error {
	tx := applyFilters(b.db.WithContext(ctx).Table(table), q.Filters)
	for _, o := range q.Orders {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	return translateGormError(tx.Find(dest).Error)
}

// Count 统计行数
func (b *GormBackend) Count(ctx context.Context, table string, filters ...Filter) (int64, error) {
	var n int64
	err := applyFilters(b.db.WithContext(ctx).Table(table), filters).Count(&n).Error
	return n, translateGormError(err)
}

// Insert 插入一行
func (b *GormBackend) Insert(ctx context.Context, table string, row interface{}) error {
	return translateGormError(b.db.WithContext(ctx).Table(table).Create(row).Error)
}

// Update 按条件更新
func (b *GormBackend) Update(ctx context.Context, table string, filters []Filter, values map[string]interface{}) (int64, error) {
	if len(filters) == 0 {
		return 0, fmt.Errorf("update %s without filters", table)
	}
	updates := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		updates[k] = v
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	result := applyFilters(b.db.WithContext(ctx).Table(table), filters).Updates(updates)
	return result.RowsAffected, translateGormError(result.Error)
}

// Probe 探测数据表与字段
func (b *GormBackend) Probe(ctx context.Context, table string, columns ...string) error {
	tx := b.db.WithContext(ctx).Table(table)
	if len(columns) > 0 {
		tx = tx.Select(columns)
	}
	var rows []map[string]interface{}
	return translateGormError(tx.Limit(1).Find(&rows).Error)
}

func applyFilters(tx *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		col := clause.Column{Name: f.Column}
		switch f.Op {
		case OpIn:
			tx = tx.Where(clause.IN{Column: col, Values: f.Value.([]interface{})})
		case OpContains:
			tx = tx.Where(clause.Like{Column: col, Value: "%" + fmt.Sprint(f.Value) + "%"})
		default:
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		}
	}
	return tx
}

// 驱动错误文本特征
var (
	gormDuplicateMarkers = []string{"UNIQUE constraint failed", "duplicate key", "Duplicate entry"}
	gormSchemaMarkers    = []string{"no such table", "no such column", "does not exist", "Unknown column", "doesn't exist"}
)

// translateGormError 翻译为存储层错误
func translateGormError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || containsAny(err.Error(), gormDuplicateMarkers) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	if containsAny(err.Error(), gormSchemaMarkers) {
		return fmt.Errorf("%w: %w", ErrSchemaMissing, err)
	}
	return err
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
