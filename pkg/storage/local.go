package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore writes objects below baseDir.
type LocalStore struct {
	baseDir   string
	publicURL string
}

func NewLocalStore(baseDir, publicURL string) *LocalStore {
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &LocalStore{baseDir: baseDir, publicURL: publicURL}
}

// Dir is the root directory, for serving the files back.
func (s *LocalStore) Dir() string {
	return s.baseDir
}

func (s *LocalStore) Save(ctx context.Context, userID, fileName, _ string, data []byte) (string, error) {
	key, err := objectKey(userID, fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return key, nil
}

func (s *LocalStore) URL(key string) string {
	return joinURL(s.publicURL, key)
}
