package bootstrap

import (
	"fmt"
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/config"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/database"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/database/migrations"
	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// 存储后端
const (
	ConnectionRDB        = "rdb"
	ConnectionPostgreSQL = "postgresql"
	ConnectionSQLite     = "sqlite"
)

// UsesDirectDatabase 是否直连数据库
func UsesDirectDatabase() bool {
	return config.GetString("database.connection") != ConnectionRDB
}

// SetupDB 初始化直连数据库，存储后端为 rdb 时跳过
func SetupDB() error {
	var dialector gorm.Dialector
	switch conn := config.GetString("database.connection"); conn {
	case ConnectionRDB:
		return nil
	case ConnectionPostgreSQL:
		dialector = setupPostgreSQL()
	case ConnectionSQLite:
		dialector = setupSQLite()
	default:
		return fmt.Errorf("暂不支持该数据库类型: %s", conn)
	}

	// 连接数据库，并设置 GORM 的日志模式
	database.Connect(dialector, logger.NewGormLogger())

	setupDBPool()

	if !config.GetBool("database.auto_migrate") {
		return nil
	}
	if err := database.AutoMigrate(migrations.RegisterTables()); err != nil {
		return fmt.Errorf("数据表结构迁移失败: %w", err)
	}
	logger.InfoString("数据库", "自动迁移", "数据表结构迁移成功")
	return nil
}

// setupPostgreSQL 配置 PostgreSQL 连接
func setupPostgreSQL() gorm.Dialector {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		config.Get("database.postgresql.host"),
		config.Get("database.postgresql.port"),
		config.Get("database.postgresql.username"),
		config.Get("database.postgresql.password"),
		config.Get("database.postgresql.database"),
		config.Get("database.postgresql.sslmode"),
		config.Get("app.timezone"),
	)
	return postgres.New(postgres.Config{
		DSN: dsn,
	})
}

// setupSQLite 配置 SQLite 连接
func setupSQLite() gorm.Dialector {
	return sqlite.Open(config.Get("database.sqlite.database"))
}

// setupDBPool 配置数据库连接池
func setupDBPool() {
	database.SQLDB.SetMaxOpenConns(config.GetInt("database.postgresql.max_open_connections"))
	database.SQLDB.SetMaxIdleConns(config.GetInt("database.postgresql.max_idle_connections"))
	database.SQLDB.SetConnMaxLifetime(time.Duration(config.GetInt("database.postgresql.max_life_seconds")) * time.Second)
}
