package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config selects and configures the resume object store.
type Config struct {
	Driver    string
	LocalDir  string
	PublicURL string // base URL objects are served from
	S3        S3Config
}

// Store persists binaries under a per-user namespace and maps keys to URLs.
type Store interface {
	Save(ctx context.Context, userID, fileName, contentType string, data []byte) (string, error)
	URL(key string) string
}

// Open builds the configured store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalStore(cfg.LocalDir, cfg.PublicURL), nil
	case DriverS3:
		return NewS3Store(ctx, cfg.S3, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

// SanitizeFileName strips path separators; names containing ".." are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// HashUserKey keeps raw user ids out of object paths.
func HashUserKey(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:16])
}

// objectKey is "<userhash>/<random>_<name>".
func objectKey(userID, fileName string) (string, error) {
	clean, err := SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	return path.Join("resumes", HashUserKey(userID), randomID()+"_"+clean), nil
}

func joinURL(base, key string) string {
	base = strings.TrimRight(base, "/")
	key = strings.TrimLeft(key, "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}

func randomID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
