package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	appconfig "github.com/GoArmGo/ConnectApp/internal/config"
)

// Client — клиент S3-совместимого хранилища MinIO для аватаров и медиа постов
type Client struct {
	s3Client   *s3.Client
	uploader   *manager.Uploader
	bucketName string
	publicURL  string
	logger     *slog.Logger
}

// NewMinioClient создает клиент MinIO и при необходимости создаёт бакет
func NewMinioClient(ctx context.Context, cfg *appconfig.Config, logger *slog.Logger) (*Client, error) {
	if cfg.MinioAccessKeyID == "" || cfg.MinioSecretAccessKey == "" || cfg.MinioBucketName == "" ||
		cfg.MinioEndpoint == "" || cfg.MinioRegion == "" {
		return nil, fmt.Errorf("MinIO credentials (MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY, MINIO_BUCKET_NAME, MINIO_ENDPOINT, MINIO_REGION) must be set")
	}

	scheme := "http"
	if cfg.MinioUseSSL {
		scheme = "https"
	}
	endpoint := fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.MinioRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.MinioAccessKeyID, cfg.MinioSecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for MinIO: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	c := &Client{
		s3Client:   s3Client,
		uploader:   manager.NewUploader(s3Client),
		bucketName: cfg.MinioBucketName,
		publicURL:  cfg.MinioPublicURL,
		logger:     logger,
	}
	if c.publicURL == "" {
		c.publicURL = endpoint
	}

	if err := c.ensureBucket(ctx, cfg.MinioRegion); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, region string) error {
	headCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.s3Client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)})
	if err == nil {
		c.logger.Info("bucket already exists", "bucket", c.bucketName)
		return nil
	}

	c.logger.Info("bucket not found, creating", "bucket", c.bucketName)
	_, err = c.s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.bucketName),
		CreateBucketConfiguration: &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(region),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket '%s': %w", c.bucketName, err)
	}

	waiter := s3.NewBucketExistsWaiter(c.s3Client)
	if err := waiter.Wait(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucketName)}, 30*time.Second); err != nil {
		return fmt.Errorf("failed waiting for bucket '%s' to be created: %w", c.bucketName, err)
	}
	c.logger.Info("bucket created", "bucket", c.bucketName)
	return nil
}

// UploadFile загружает объект и возвращает его публичный URL
func (c *Client) UploadFile(ctx context.Context, objectKey string, fileContent io.Reader, contentType string) (string, error) {
	start := time.Now()
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(objectKey),
		Body:        fileContent,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		c.logger.Error("failed to upload object", "key", objectKey, "error", err)
		return "", fmt.Errorf("failed to upload file %s to bucket %s: %w", objectKey, c.bucketName, err)
	}

	c.logger.Info("object uploaded",
		"key", objectKey,
		"content_type", contentType,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return objectURL(c.publicURL, c.bucketName, objectKey), nil
}

func (c *Client) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", objectKey, c.bucketName, err)
	}
	c.logger.Info("object deleted", "key", objectKey)
	return nil
}

// objectURL строит path-style адрес объекта: <public>/<bucket>/<key>
func objectURL(publicURL, bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(publicURL, "/"), bucket, strings.Join(segments, "/"))
}
