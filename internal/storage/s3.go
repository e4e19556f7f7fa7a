package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Uploader hands out upload targets for listing photos. Bytes go straight
// from the client to object storage; they never pass through this service.
type Uploader interface {
	PresignedPutURL(ctx context.Context) (key string, url string, err error)
}

// S3Uploader issues presigned PUT URLs against an S3-compatible bucket.
type S3Uploader struct {
	presign *s3.PresignClient
	bucket  string
}

// Config carries the object-storage settings.
type Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// NewS3Uploader constructs the uploader.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
	})

	return &S3Uploader{presign: s3.NewPresignClient(client), bucket: cfg.Bucket}, nil
}

// PresignedPutURL returns a fresh storage key and a PUT URL valid for 15
// minutes.
func (u *S3Uploader) PresignedPutURL(ctx context.Context) (string, string, error) {
	key := "listing-photos/" + uuid.NewString()

	req, err := u.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}
