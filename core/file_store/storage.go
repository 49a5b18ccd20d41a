package file_store

import (
	"context"
	"strings"

	"github.com/gogf/gf/v2/frame/g"
)

// StorageType 存储类型
type StorageType string

const (
	StorageTypeNone  StorageType = "none"
	StorageTypeLocal StorageType = "local"
	StorageTypeMinio StorageType = "minio"
)

// Store 文件存储，按对象名保存字节内容
type Store interface {
	// Save 保存文件，返回本地路径或对象键
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
	// Type 存储类型
	Type() StorageType
}

// Options 存储配置
type Options struct {
	Type      string
	Dir       string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	SSL       bool
}

// NewStore 按配置创建存储，none 或未知类型返回 nil
// MinIO 未配置 endpoint 时退回本地存储
func NewStore(ctx context.Context, opts Options) (Store, error) {
	switch StorageType(strings.ToLower(opts.Type)) {
	case StorageTypeLocal:
		g.Log().Infof(ctx, "Using local storage: %s", opts.Dir)
		return NewLocalStore(opts.Dir), nil
	case StorageTypeMinio:
		if opts.Endpoint == "" {
			g.Log().Infof(ctx, "MinIO not configured, using local storage: %s", opts.Dir)
			return NewLocalStore(opts.Dir), nil
		}
		store, err := NewMinioStore(ctx, opts.Endpoint, opts.AccessKey, opts.SecretKey, opts.Bucket, opts.SSL)
		if err != nil {
			return nil, err
		}
		g.Log().Infof(ctx, "Using MinIO storage: %s/%s", opts.Endpoint, opts.Bucket)
		return store, nil
	case StorageTypeNone, "":
		return nil, nil
	default:
		g.Log().Warningf(ctx, "Unknown storage type %q, storage disabled", opts.Type)
		return nil, nil
	}
}
