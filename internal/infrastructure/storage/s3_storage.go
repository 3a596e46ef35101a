package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"memorylocker/internal/config"
	"memorylocker/internal/infrastructure/metrics"
)

// S3Storage handles uploads and downloads to S3-compatible storage.
type S3Storage struct {
	bucket       string
	client       *s3.Client
	endpoint     string
	usePathStyle bool
	log          zerolog.Logger
}

func NewS3Storage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Storage, error) {
	logger := log.With().Str("component", "s3-storage").Logger()

	// config.Load guarantees bucket and credentials are present for the s3
	// backend, so a missing value here is a programming error.
	if cfg.S3Bucket == "" || cfg.S3AccessKeyID == "" || cfg.S3SecretKey == "" {
		return nil, errors.New("s3 storage requires bucket and credentials")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3Endpoint != "" {
			return aws.Endpoint{
				URL:           cfg.S3Endpoint,
				PartitionID:   "aws",
				SigningRegion: cfg.S3Region,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	endpoint := cfg.S3PublicEndpoint
	if endpoint == "" {
		endpoint = cfg.S3Endpoint
	}

	return &S3Storage{
		bucket:       cfg.S3Bucket,
		client:       client,
		endpoint:     endpoint,
		usePathStyle: cfg.S3UsePathStyle,
		log:          logger,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		metrics.BlobOperationsTotal.WithLabelValues("upload", "error").Inc()
		return err
	}
	metrics.BlobOperationsTotal.WithLabelValues("upload", "ok").Inc()
	return nil
}

func (s *S3Storage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, "", err
	}
	mime := ""
	if out.ContentType != nil {
		mime = *out.ContentType
	}
	return out.Body, mime, nil
}

// Delete removes the object identified by key.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.BlobOperationsTotal.WithLabelValues("delete", "error").Inc()
		return err
	}
	metrics.BlobOperationsTotal.WithLabelValues("delete", "ok").Inc()
	return nil
}

// PublicURL builds the predictable URL the object is reachable at.
func (s *S3Storage) PublicURL(key string) (string, error) {
	if s.endpoint == "" {
		return "", errors.New("no s3 endpoint configured")
	}
	base, err := url.Parse(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse s3 endpoint: %w", err)
	}
	if s.usePathStyle {
		base.Path = strings.TrimSuffix(base.Path, "/") + "/" + s.bucket + "/" + key
	} else {
		base.Host = s.bucket + "." + base.Host
		base.Path = strings.TrimSuffix(base.Path, "/") + "/" + key
	}
	return base.String(), nil
}

// Health performs a simple HeadBucket request.
func (s *S3Storage) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
