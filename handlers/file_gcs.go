// handlers/file_gcs.go
package handlers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
)

// GCSFileStore writes uploads to a Google Cloud Storage bucket.
// Selected over local disk when GCS_BUCKET is configured.
type GCSFileStore struct {
	client *storage.Client
	bucket string
}

func NewGCSFileStore(ctx context.Context, bucket string) (*GCSFileStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSFileStore{client: client, bucket: bucket}, nil
}

func (s *GCSFileStore) Save(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	object := fmt.Sprintf("%s/%d%s", dir, time.Now().UnixNano(), filepath.Ext(filename))

	wc := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("finalize object: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, object), nil
}

func (s *GCSFileStore) Close() error {
	return s.client.Close()
}
