package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/raushankrgupta/vogue-styler/models"
)

// S3Images offloads look image payloads to S3. The store then holds object
// keys instead of multi-megabyte data URIs; reads are rehydrated with
// presigned URLs. Presigned URLs expire, so only keys are ever persisted.
type S3Images struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Images initializes the S3 client for the given bucket.
func NewS3Images(ctx context.Context, region, bucket string) (*S3Images, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}
	client := s3.NewFromConfig(cfg)
	return &S3Images{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

// OffloadLook uploads the look's inline images and replaces them with object
// keys. Non-data-URI references (external URLs, already-offloaded keys) are
// left alone.
func (s *S3Images) OffloadLook(ctx context.Context, look *models.SavedLook) error {
	fields := []struct {
		ref  *string
		name string
	}{
		{&look.ResultURL, "result"},
		{&look.OriginalURL, "original"},
	}
	for _, f := range fields {
		if !strings.HasPrefix(*f.ref, "data:") {
			continue
		}
		key := fmt.Sprintf("looks/%s/%s.png", look.ID, f.name)
		if err := s.uploadDataURI(ctx, *f.ref, key); err != nil {
			return err
		}
		*f.ref = key
	}
	return nil
}

// HydrateLooks swaps stored object keys for presigned URLs in place. A
// presign failure leaves the key as a fallback.
func (s *S3Images) HydrateLooks(ctx context.Context, looks []models.SavedLook) {
	for i := range looks {
		for _, ref := range []*string{&looks[i].ResultURL, &looks[i].OriginalURL} {
			if strings.HasPrefix(*ref, "data:") || strings.HasPrefix(*ref, "http") {
				continue
			}
			if url, err := s.GetPresignedURL(ctx, *ref); err == nil {
				*ref = url
			}
		}
	}
}

func (s *S3Images) uploadDataURI(ctx context.Context, uri, key string) error {
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return fmt.Errorf("malformed data URI for %s", key)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return fmt.Errorf("failed to decode image for %s: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload image to S3: %v", err)
	}
	return nil
}

// GetPresignedURL generates a presigned URL for an object key.
func (s *S3Images) GetPresignedURL(ctx context.Context, objectKey string) (string, error) {
	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %v", err)
	}
	return request.URL, nil
}
