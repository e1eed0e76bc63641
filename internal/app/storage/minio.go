package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MinIOClient хранит изображения продуктов
type MinIOClient struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOClient создает клиент для MinIO
func NewMinIOClient(endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOClient, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Создаем bucket если не существует
	ctx := context.Background()
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", bucketName)
	}

	return &MinIOClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// imageContentType определяет content type по расширению; пустая строка
// означает неподдерживаемый формат
func imageContentType(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	}
	return ""
}

// UploadProductImage загружает изображение продукта и возвращает имя объекта
func (m *MinIOClient) UploadProductImage(productID uint, fileData []byte, originalFilename string) (string, error) {
	ctx := context.Background()

	ext := filepath.Ext(originalFilename)
	contentType := imageContentType(ext)
	if contentType == "" {
		return "", fmt.Errorf("unsupported image format: %s", ext)
	}

	objectName := fmt.Sprintf("product_%d_%s%s", productID, uuid.New().String()[:8], ext)

	reader := bytes.NewReader(fileData)
	_, err := m.client.PutObject(ctx, m.bucketName, objectName, reader, int64(len(fileData)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	logrus.Infof("Image %s uploaded successfully", objectName)
	return objectName, nil
}

// DeleteImage удаляет изображение из MinIO
func (m *MinIOClient) DeleteImage(objectName string) error {
	err := m.client.RemoveObject(context.Background(), m.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// GetImageURL возвращает временный URL для доступа к изображению (1 час)
func (m *MinIOClient) GetImageURL(objectName string) (string, error) {
	url, err := m.client.PresignedGetObject(context.Background(), m.bucketName, objectName, time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}
