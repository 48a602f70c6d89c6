package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// LocalStorage persists files on disk under a base directory and hands out
// signed URLs served by the API's /files route.
type LocalStorage struct {
	baseDir string
	baseURL string
	signer  *SignedURLSigner
}

// NewLocalStorage ensures the base directory exists and returns a handle.
// baseURL is the absolute URL of the file download route, e.g.
// https://api.example.org/api/v1/files.
func NewLocalStorage(baseDir, baseURL string, signer *SignedURLSigner) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if signer == nil {
		return nil, fmt.Errorf("url signer required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, baseURL: baseURL, signer: signer}, nil
}

// Upload writes data under key and returns its public URL.
func (s *LocalStorage) Upload(ctx context.Context, key string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean, ok := CleanKey(key)
	if !ok {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	target := s.resolve(clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare storage directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.PublicURL(clean)
}

// PublicURL returns the signed download URL for key.
func (s *LocalStorage) PublicURL(key string) (string, error) {
	clean, ok := CleanKey(key)
	if !ok {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	token, _, err := s.signer.Generate(clean)
	if err != nil {
		return "", fmt.Errorf("sign url: %w", err)
	}
	return fmt.Sprintf("%s/%s?token=%s", s.baseURL, (&url.URL{Path: clean}).EscapedPath(), url.QueryEscape(token)), nil
}

// Open verifies token against key and returns a read handle for the file.
func (s *LocalStorage) Open(key, token string) (*os.File, error) {
	clean, ok := CleanKey(key)
	if !ok {
		return nil, fmt.Errorf("invalid object key %q", key)
	}
	granted, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}
	if granted != clean {
		return nil, fmt.Errorf("token does not match path")
	}
	file, err := os.Open(s.resolve(clean))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) resolve(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}
