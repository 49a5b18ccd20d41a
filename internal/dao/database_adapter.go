package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gogf/gf/v2/database/gdb"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gctx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModel "github.com/Malowking/edugo/internal/model/gorm"
)

// 支持的数据库类型，配置中的 pgsql/postgresql 统一为 postgres
const (
	dbTypeMySQL    = "mysql"
	dbTypePostgres = "postgres"
)

// DBConfig 数据库连接配置
type DBConfig struct {
	Type     string // mysql 或 postgres
	Host     string
	Port     string
	User     string
	Pass     string
	Name     string
	Charset  string // 仅 MySQL 使用
	Timezone string // 仅 PostgreSQL 使用
}

// PoolConfig 连接池与 gorm 行为配置
type PoolConfig struct {
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
	LogLevel    logger.LogLevel
}

// dbConfigFrom 从 GoFrame 的数据库节点配置转换，补齐默认值
func dbConfigFrom(node *gdb.ConfigNode) (*DBConfig, error) {
	if node == nil {
		return nil, fmt.Errorf("database.default is not configured")
	}

	cfg := &DBConfig{
		Host:     node.Host,
		Port:     node.Port,
		User:     node.User,
		Pass:     node.Pass,
		Name:     node.Name,
		Charset:  node.Charset,
		Timezone: node.Timezone,
	}
	switch strings.ToLower(node.Type) {
	case "mysql", "mariadb":
		cfg.Type = dbTypeMySQL
		if cfg.Port == "" {
			cfg.Port = "3306"
		}
		if cfg.Charset == "" {
			cfg.Charset = "utf8mb4"
		}
	case "pgsql", "postgres", "postgresql":
		cfg.Type = dbTypePostgres
		if cfg.Port == "" {
			cfg.Port = "5432"
		}
		if cfg.Timezone == "" {
			cfg.Timezone = "Asia/Shanghai"
		}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", node.Type)
	}
	return cfg, nil
}

// dialectorFor 构建 DSN 并选择 gorm 驱动
func dialectorFor(cfg *DBConfig) (gorm.Dialector, error) {
	switch cfg.Type {
	case dbTypeMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name, cfg.Charset)
		return mysql.Open(dsn), nil
	case dbTypePostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
			cfg.Host, cfg.User, cfg.Pass, cfg.Name, cfg.Port, cfg.Timezone)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// parseLogLevel 解析 gorm 日志级别，未知值按 info 处理
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn", "warning":
		return logger.Warn
	default:
		return logger.Info
	}
}

// loadPoolConfig 读取 database.pool 配置
func loadPoolConfig(ctx context.Context) PoolConfig {
	return PoolConfig{
		MaxIdle:     g.Cfg().MustGet(ctx, "database.pool.maxIdle", 10).Int(),
		MaxOpen:     g.Cfg().MustGet(ctx, "database.pool.maxOpen", 30).Int(),
		MaxLifetime: g.Cfg().MustGet(ctx, "database.pool.maxLifetime", "1h").Duration(),
		LogLevel:    parseLogLevel(g.Cfg().MustGet(ctx, "database.pool.logLevel", "info").String()),
	}
}

// openDatabase 打开连接、配置连接池并检查连通性
// 单条写入不包裹隐式事务，需要事务时调用方显式开启
func openDatabase(dialector gorm.Dialector, pool PoolConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(pool.LogLevel),
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if pool.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// initDatabase 根据配置初始化数据库连接并迁移 students 表
func initDatabase() (*gorm.DB, error) {
	ctx := gctx.New()

	cfg, err := dbConfigFrom(g.DB().GetConfig())
	if err != nil {
		return nil, err
	}
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build DSN: %w", err)
	}

	db, err := openDatabase(dialector, loadPoolConfig(ctx))
	if err != nil {
		return nil, err
	}
	g.Log().Infof(ctx, "数据库已连接: type=%s, host=%s:%s, db=%s", cfg.Type, cfg.Host, cfg.Port, cfg.Name)

	if err = gormModel.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database tables: %w", err)
	}
	return db, nil
}
