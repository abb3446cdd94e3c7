// Package storage persists payment proof screenshots in object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ProofStore uploads a payment screenshot and returns its public URL
type ProofStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// S3ProofStore stores payment proofs in an S3 bucket
type S3ProofStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3ProofStore creates a new S3-backed proof store. baseURL overrides the
// default virtual-hosted URL, for buckets served through a CDN.
func NewS3ProofStore(region, bucket, baseURL string, logger *slog.Logger) (*S3ProofStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3ProofStore{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Upload writes the object and returns the URL it is publicly readable at
func (s *S3ProofStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error("failed to upload payment proof",
			slog.String("bucket", s.bucket),
			slog.String("key", key),
			slog.Any("error", err))
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	url := s.baseURL + "/" + key
	s.logger.Info("payment proof uploaded", slog.String("key", key))

	return url, nil
}
