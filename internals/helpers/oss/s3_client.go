// file: internals/helpers/oss/s3_client.go

package helper

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"parasempre_backend/internals/configs"
)

/* =======================================================================
   S3 / MinIO
======================================================================= */

// s3API is the slice of *s3.Client we use.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Service struct {
	Client     s3API
	BucketName string
	PublicBase string // e.g. https://cdn.example.com or http://127.0.0.1:9000/bucket
	Prefix     string
}

func NewS3ServiceFromEnv(prefix string) (*S3Service, error) {
	bucket := strings.TrimSpace(configs.GetEnv("S3_BUCKET"))
	region := configs.GetEnv("S3_REGION", "us-east-1")
	endpoint := strings.TrimRight(strings.TrimSpace(configs.GetEnv("S3_BASE_ENDPOINT")), "/")
	accessKey := configs.GetEnv("S3_ACCESS_KEY")
	secretKey := configs.GetEnv("S3_SECRET_KEY")
	if bucket == "" {
		return nil, fmt.Errorf("missing env: S3_BUCKET")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	base := strings.TrimRight(strings.TrimSpace(configs.GetEnv("S3_PUBLIC_BASE")), "/")
	if base == "" {
		if endpoint != "" {
			base = endpoint + "/" + bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	return &S3Service{
		Client:     client,
		BucketName: bucket,
		PublicBase: base,
		Prefix:     strings.Trim(prefix, "/"),
	}, nil
}

func (s *S3Service) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	key := joinKey(s.Prefix, path)
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.BucketName),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentLength:      aws.Int64(int64(len(data))),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String("inline"),
		CacheControl:       aws.String(cacheForever),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.PublicBase + "/" + key, nil
}

// Delete is idempotent on S3: deleting a missing key succeeds.
func (s *S3Service) Delete(ctx context.Context, publicURL string) error {
	key, err := extractKey(publicURL, s.PublicBase)
	if err != nil {
		return err
	}
	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}
