package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// R2Config contains configuration for Cloudflare R2 storage.
type R2Config struct {
	AccountID   string
	AccessKeyID string
	SecretKey   string
	BucketName  string
	PublicURL   string
}

// s3API is the subset of the S3 client R2Storage calls.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// R2Storage implements Storage on Cloudflare R2 through the S3 API.
type R2Storage struct {
	client    s3API
	bucket    string
	publicURL string
}

// NewR2Storage creates a new Cloudflare R2 storage implementation.
func NewR2Storage(cfg R2Config) (*R2Storage, error) {
	if cfg.AccountID == "" {
		return nil, ErrR2AccountIDRequired
	}
	if cfg.AccessKeyID == "" || cfg.SecretKey == "" {
		return nil, ErrR2CredentialsRequired
	}
	if cfg.BucketName == "" {
		return nil, ErrR2BucketRequired
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, wrapInternal("failed to load AWS config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return newR2WithClient(client, cfg.BucketName, cfg.PublicURL), nil
}

func newR2WithClient(client s3API, bucket, publicURL string) *R2Storage {
	return &R2Storage{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

func (s *R2Storage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(cleaned),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", wrapInternal("failed to upload to R2", err)
	}
	return s.URL(cleaned), nil
}

func (s *R2Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrFileNotFound(key)
		}
		return nil, wrapInternal("failed to get from R2", err)
	}
	return result.Body, nil
}

func (s *R2Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil && !isNotFoundError(err) {
		return wrapInternal("failed to delete from R2", err)
	}
	return nil
}

func (s *R2Storage) URL(key string) string {
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key)
	}
	return key
}

// Exists issues a HeadObject request.
func (s *R2Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, wrapInternal("failed to check existence in R2", err)
	}
	return true, nil
}

// isNotFoundError recognises both typed S3 errors and the bare 404 code R2
// returns for HEAD requests.
func isNotFoundError(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return true
		}
	}
	return false
}
