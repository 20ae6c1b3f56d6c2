package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/domain"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/logger"
)

// Ensure S3Sink implements the sink interface.
var _ driven.ArtifactSink = (*S3Sink)(nil)

// s3API is the slice of the S3 client we use.
type s3API interface {
	PutObject(
		ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
}

// S3Sink uploads the artifact as an S3 object.
type S3Sink struct {
	client s3API
	bucket string
	key    string
}

// NewS3Sink creates an S3 sink for the given bucket and key.
func NewS3Sink(ctx context.Context, bucket, key string) (*S3Sink, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 sink requires a bucket and key")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Sink{client: s3.NewFromConfig(cfg), bucket: bucket, key: key}, nil
}

// NewS3SinkWithClient creates a sink around an existing client.
// Useful for testing.
func NewS3SinkWithClient(client s3API, bucket, key string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, key: key}
}

// Write serialises the artifact and uploads it.
func (s *S3Sink) Write(ctx context.Context, artifact *domain.Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	logger.Info("Saving results to S3: %s/%s", s.bucket, s.key)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	return nil
}
