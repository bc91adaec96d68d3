// Package objectstore archives uploaded knowledge files in S3-compatible storage.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/utils/platformerrors"
)

// Config locates the bucket.
type Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKeyID  string
	SecretKey    string
	UsePathStyle bool
}

// S3Store implements knowledge.ObjectStore. It is disabled when bucket or credentials are unset.
type S3Store struct {
	bucket string
	client *s3.Client
	log    zerolog.Logger
}

func NewS3Store(ctx context.Context, cfg Config, log zerolog.Logger) (*S3Store, error) {
	logger := log.With().Str("component", "s3-object-store").Logger()
	store := &S3Store{bucket: strings.TrimSpace(cfg.Bucket), log: logger}

	accessKey := strings.TrimSpace(cfg.AccessKeyID)
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if store.bucket == "" || accessKey == "" || secretKey == "" {
		logger.Info().Msg("knowledge archive bucket not configured; uploads are stored in the database only")
		return store, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return store, nil
}

func (s *S3Store) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if !s.Enabled() {
		return platformerrors.NewConfigurationError(ctx, platformerrors.LayerInfrastructure,
			"knowledge_bucket_not_configured", "knowledge archive bucket not configured", "objectstore-upload-config-001")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			"failed to archive knowledge file", err, "objectstore-upload-001")
	}
	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("archived knowledge file")
	return nil
}
