package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// coverURLPrefix is the public path covers are served under.
const coverURLPrefix = "/covers/"

// CoverService stores book cover images in S3.
type CoverService struct {
	client *s3.Client
	bucket string
}

func NewCoverService(ctx context.Context, bucket, region, accessKeyID, secretAccessKey string) (*CoverService, error) {
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is required")
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &CoverService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// Upload stores the image and returns the URL path it will be served under.
func (s *CoverService) Upload(ctx context.Context, originalFilename string, body io.Reader, contentType string) (string, error) {
	key := uuid.New().String() + filepath.Ext(originalFilename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return coverURLPrefix + key, nil
}

// Get downloads a stored cover. Caller must close the returned reader.
func (s *CoverService) Get(ctx context.Context, key string) (body io.ReadCloser, contentType string, err error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", err
	}
	ct := ""
	if out.ContentType != nil {
		ct = *out.ContentType
	}
	return out.Body, ct, nil
}

func (s *CoverService) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// CoverKeyFromURL extracts the object key from a cover URL path produced by
// Upload. Returns "" for external image URLs, which are not ours to delete.
func CoverKeyFromURL(url string) string {
	if !strings.HasPrefix(url, coverURLPrefix) {
		return ""
	}
	key := strings.TrimPrefix(url, coverURLPrefix)
	if key == "" || strings.Contains(key, "/") {
		return ""
	}
	return key
}
