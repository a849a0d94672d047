package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"vidhub/internal/config"
)

type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3_REGION),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3_USER,
			cfg.S3_PASSWORD,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3_ENDPOINT != "" {
			o.BaseEndpoint = aws.String(cfg.S3_ENDPOINT)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:    client,
		bucket:    cfg.S3_BUCKET,
		publicURL: strings.TrimRight(cfg.S3_PUBLIC_URL, "/"),
	}, nil
}

func storageKey(folder, filename string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%v%s",
		folder, d.Year(), d.Month(), d.Day(), uuid.New(), path.Ext(filename))
}

func (s *S3Store) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	key := storageKey(folder, filename)

	input := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}
