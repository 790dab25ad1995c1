package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/verdantworks/crm-api/internal/config"
)

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Path      string
	CreatedAt time.Time
	Size      int64
}

// Storage defines the interface for file storage operations. Callers own the
// object path; implementations never invent names.
type Storage interface {
	Upload(ctx context.Context, path string, contentType string, data io.Reader) (int64, error)
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// NewStorage creates a storage instance based on configuration.
// Local mode stores files on the local filesystem; azure mode stores them
// in Azure Blob Storage with SAS download URLs.
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath, cfg.LocalBaseURL)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}
