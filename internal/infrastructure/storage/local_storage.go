package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	appbilling "github.com/agentdesk/backend/internal/application/billing"
	infraconfig "github.com/agentdesk/backend/internal/infrastructure/config"
)

var _ appbilling.ProofStorage = (*LocalProofStorage)(nil)

// LocalProofStorage writes proof files to a directory on disk. Download URLs
// point at the static file route and never expire. Intended for development
// and single-node deployments.
type LocalProofStorage struct {
	basePath string
	baseURL  string
}

// NewLocalProofStorage creates a LocalProofStorage rooted at the configured
// path, creating the directory if needed.
func NewLocalProofStorage(cfg *infraconfig.StorageConfig) (*LocalProofStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}

	basePath := cfg.LocalPath
	if basePath == "" {
		basePath = "./data/proofs"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalProofStorage{
		basePath: basePath,
		baseURL:  "/files",
	}, nil
}

// resolve maps a storage key to a path under basePath, rejecting keys that
// would escape it.
func (s *LocalProofStorage) resolve(storageKey string) (string, error) {
	if storageKey == "" {
		return "", errors.New("storage key is required")
	}
	cleaned := filepath.Clean(storageKey)
	if strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid storage key: %s", storageKey)
	}
	return filepath.Join(s.basePath, cleaned), nil
}

// Upload writes the proof file under the base directory
func (s *LocalProofStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	path, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DownloadURL returns the static file path for a stored proof
func (s *LocalProofStorage) DownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	path, err := s.resolve(storageKey)
	if err != nil {
		return "", time.Time{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return "", time.Time{}, fmt.Errorf("proof not found: %w", err)
	}
	// local files are served directly, the expiry is nominal
	return s.baseURL + "/" + filepath.ToSlash(filepath.Clean(storageKey)), time.Now().Add(expiresIn), nil
}

// Exists reports whether a proof file is present
func (s *LocalProofStorage) Exists(ctx context.Context, storageKey string) (bool, error) {
	path, err := s.resolve(storageKey)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes a proof file. Deleting a missing file is not an error.
func (s *LocalProofStorage) Delete(ctx context.Context, storageKey string) error {
	path, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// BasePath returns the root directory for stored proofs
func (s *LocalProofStorage) BasePath() string {
	return s.basePath
}

// NewProofStorage selects a backend by the configured provider
func NewProofStorage(cfg *infraconfig.StorageConfig, opts ...S3Option) (appbilling.ProofStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	switch cfg.Provider {
	case "s3":
		return NewS3ProofStorage(cfg, opts...)
	case "local", "":
		return NewLocalProofStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Provider)
	}
}
