package cache

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
)

// InitRedis 初始化Redis客户端，只有 history.backend=redis 时才会调用
func InitRedis(ctx context.Context) (*redis.Client, error) {
	address := g.Cfg().MustGet(ctx, "redis.address", "localhost:6379").String()
	password := g.Cfg().MustGet(ctx, "redis.password", "").String()
	db := g.Cfg().MustGet(ctx, "redis.db", 0).Int()
	maxRetries := g.Cfg().MustGet(ctx, "redis.maxRetries", 3).Int()
	poolSize := g.Cfg().MustGet(ctx, "redis.poolSize", 10).Int()
	minIdleConns := g.Cfg().MustGet(ctx, "redis.minIdleConns", 2).Int()

	client := redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		MaxRetries:   maxRetries,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
	})

	// 测试连接
	if err := client.Ping(ctx).Err(); err != nil {
		g.Log().Errorf(ctx, "Redis connection failed: %v", err)
		_ = client.Close()
		return nil, err
	}

	rdb = client
	g.Log().Infof(ctx, "Redis initialized successfully: %s, DB: %d", address, db)
	return client, nil
}

// GetRedisClient 获取Redis客户端，未初始化时为 nil
func GetRedisClient() *redis.Client {
	return rdb
}

// CloseRedis 关闭Redis连接
func CloseRedis(ctx context.Context) error {
	if rdb != nil {
		g.Log().Info(ctx, "Closing Redis connection")
		return rdb.Close()
	}
	return nil
}
