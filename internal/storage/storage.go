package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	cfg "github.com/templui/imagefolders/internal/config"
)

// URLPrefix is the public path under which payloads are served
const URLPrefix = "/uploads/images/"

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid storage key")
)

var (
	keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)
)

// Storage defines the interface for payload storage operations
type Storage interface {
	// Save stores the payload under key
	Save(ctx context.Context, key string, r io.Reader) error

	// Delete removes the payload under key. A missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Open streams the payload under key, ErrObjectNotFound if absent
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// Presigner is implemented by backends that can hand out temporary direct download URLs
type Presigner interface {
	PresignedURL(ctx context.Context, key string) (string, error)
}

// New creates the storage backend selected by STORAGE_DRIVER
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageDriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
	case cfg.StorageDriverLocal, "":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// NewKey builds a fresh storage key: image-<unix ms>-<uuid><ext>.
// The extension is lower-cased and dropped when it is not a plain alphanumeric suffix.
func NewKey(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	return "image-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + uuid.New().String() + ext
}

// ValidKey reports whether key is a single safe path segment
func ValidKey(key string) bool {
	return keyPattern.MatchString(key) && !strings.Contains(key, "..")
}

// URL returns the public retrieval path for a payload
func URL(key string) string {
	return URLPrefix + key
}
