package file_store

import (
	"bytes"
	"context"

	"github.com/Malowking/edugo/core/errors"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore MinIO（S3 兼容）对象存储
type MinioStore struct {
	client     *minio.Client
	bucketName string
}

// NewMinioStore 创建客户端，bucket 不存在时创建
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, ssl bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: ssl,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalError, err, "failed to create MinIO client")
	}

	// 创建 bucket，如果已存在则跳过
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternalError, err, "failed to check if bucket exists")
	}
	if !exists {
		if err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: ""}); err != nil {
			return nil, errors.Wrap(errors.ErrInternalError, err, "failed to create bucket")
		}
		g.Log().Printf(ctx, "Created bucket '%s'", bucketName)
	} else {
		g.Log().Printf(ctx, "Bucket '%s' already exists, skipping creation.", bucketName)
	}

	return &MinioStore{client: client, bucketName: bucketName}, nil
}

func (m *MinioStore) Type() StorageType { return StorageTypeMinio }

// Save 上传对象，返回对象键
func (m *MinioStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucketName, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		g.Log().Errorf(ctx, "Failed to upload object %s: %v", name, err)
		return "", errors.Wrap(errors.ErrStorageFailed, err, "upload failed")
	}

	g.Log().Infof(ctx, "File uploaded to MinIO: %s/%s", m.bucketName, name)
	return name, nil
}
