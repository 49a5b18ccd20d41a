package file_store

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Malowking/edugo/core/errors"
	"github.com/gogf/gf/v2/frame/g"
)

// LocalStore 本地目录存储
type LocalStore struct {
	dir string
}

// NewLocalStore 创建本地存储
func NewLocalStore(dir string) *LocalStore {
	if dir == "" {
		dir = "upload"
	}
	return &LocalStore{dir: dir}
}

// Dir 存储目录
func (l *LocalStore) Dir() string { return l.dir }

func (l *LocalStore) Type() StorageType { return StorageTypeLocal }

// Save 保存文件到本地目录，name 中的目录部分会被去掉
func (l *LocalStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	// 确保目标目录存在
	if err := os.MkdirAll(l.dir, 0755); err != nil {
		g.Log().Errorf(ctx, "Failed to create directory %s: %v", l.dir, err)
		return "", errors.Newf(errors.ErrStorageFailed, "failed to create directory %s: %v", l.dir, err)
	}

	finalPath := filepath.Join(l.dir, filepath.Base(name))
	if err := os.WriteFile(finalPath, data, 0644); err != nil {
		g.Log().Errorf(ctx, "Failed to write file %s: %v", finalPath, err)
		// 删除写入失败的文件
		_ = os.Remove(finalPath)
		return "", errors.Newf(errors.ErrStorageFailed, "failed to write file %s: %v", finalPath, err)
	}

	g.Log().Infof(ctx, "File saved to local storage: %s", finalPath)
	return finalPath, nil
}
