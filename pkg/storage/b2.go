package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kurin/blazer/b2"
)

// B2Storage stores attachments in a Backblaze B2 bucket.
type B2Storage struct {
	client *b2.Client
	bucket *b2.Bucket
}

// NewB2Storage authorises against B2 and resolves the target bucket.
func NewB2Storage(ctx context.Context, accountID, appKey, bucketName string) (*B2Storage, error) {
	if accountID == "" || appKey == "" || bucketName == "" {
		return nil, fmt.Errorf("b2 account, key and bucket are required")
	}
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("create b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("get bucket %s: %w", bucketName, err)
	}
	return &B2Storage{client: client, bucket: bucket}, nil
}

// Upload writes data to the bucket under key and returns its public URL.
func (s *B2Storage) Upload(ctx context.Context, key string, data []byte) (string, error) {
	clean, ok := CleanKey(key)
	if !ok {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	w := s.bucket.Object(clean).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close object writer: %w", err)
	}
	return s.PublicURL(clean)
}

// PublicURL returns the bucket's download URL for key.
func (s *B2Storage) PublicURL(key string) (string, error) {
	clean, ok := CleanKey(key)
	if !ok {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return fmt.Sprintf("%s/file/%s/%s", strings.TrimRight(s.bucket.BaseURL(), "/"), s.bucket.Name(), clean), nil
}
