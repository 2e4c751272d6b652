// Package repotest 测试用的内存 SQLite 存储
package repotest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/boshenzh/werox-wechat-mini-program/app/repositories"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/database"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/database/migrations"
)

// OpenDB 打开独立的内存数据库并迁移指定模型，未指定时迁移全部数据表
func OpenDB(t testing.TB, tables ...interface{}) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:"), gormlogger.Discard)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 单连接保证同一个内存库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if len(tables) == 0 {
		tables = migrations.RegisterTables()
	}
	if err := db.AutoMigrate(tables...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewStore 基于内存数据库的仓库集合
func NewStore(t testing.TB, tables ...interface{}) (*repositories.Store, *gorm.DB) {
	t.Helper()
	db := OpenDB(t, tables...)
	return repositories.NewStore(repositories.NewGormBackend(db)), db
}
