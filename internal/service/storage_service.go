package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"technicia_backend/internal/config"
	"technicia_backend/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService stores uploaded files on whichever backend the config
// selects: local disk, MinIO, or Aliyun OSS.
type StorageService struct {
	cfg    config.StorageConfig
	minioC *minio.Client
	ossBkt *oss.Bucket
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{cfg: cfg.Storage}

	switch cfg.Storage.Type {
	case util.StorageLocal:
		// Directory is created at config load.
	case util.StorageMinio:
		client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
			Creds: credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		s.minioC = client
	case util.StorageOSS:
		client, err := oss.New(cfg.Storage.OSSEndpoint, cfg.Storage.OSSAccessKey, cfg.Storage.OSSSecretKey)
		if err != nil {
			return nil, fmt.Errorf("oss client: %w", err)
		}
		bucket, err := client.Bucket(cfg.Storage.OSSBucket)
		if err != nil {
			return nil, fmt.Errorf("oss bucket: %w", err)
		}
		s.ossBkt = bucket
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}

	return s, nil
}

// SaveUpload streams the multipart file to the backend under dir and returns a
// URL the client can fetch it from. Object names are random so uploads never
// collide or leak the original filename.
func (s *StorageService) SaveUpload(file *multipart.FileHeader, dir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectName := fmt.Sprintf("%s/%s%s", dir, uuid.New().String(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")

	switch s.cfg.Type {
	case util.StorageLocal:
		return s.saveLocal(src, objectName)
	case util.StorageMinio:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := s.minioC.PutObject(ctx, s.cfg.MinioBucket, objectName, src, file.Size,
			minio.PutObjectOptions{ContentType: contentType})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("https://%s/%s/%s", s.cfg.MinioEndpoint, s.cfg.MinioBucket, objectName), nil
	case util.StorageOSS:
		if err := s.ossBkt.PutObject(objectName, src); err != nil {
			return "", err
		}
		return fmt.Sprintf("https://%s.%s/%s", s.cfg.OSSBucket, s.cfg.OSSEndpoint, objectName), nil
	}
	return "", fmt.Errorf("unknown storage type %q", s.cfg.Type)
}

func (s *StorageService) saveLocal(src io.Reader, objectName string) (string, error) {
	dst := filepath.Join(s.cfg.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}
	return "/uploads/" + objectName, nil
}
