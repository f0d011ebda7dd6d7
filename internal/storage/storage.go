// Package storage archives original image uploads, locally or in Azure Blob Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	ModeLocal = "local"
	ModeAzure = "azure"
)

var (
	ErrNotFound    = errors.New("stored object not found")
	ErrInvalidPath = errors.New("invalid storage path")
)

// Object is an original image on its way into the archive
type Object struct {
	// Panel groups objects by the console panel that received them
	Panel       string
	Filename    string
	ContentType string
	Body        io.Reader
}

// Stored locates an archived object
type Stored struct {
	Key  string
	Size int64
}

// Storage is an archive of original images keyed by "<panel>/<yyyy>/<mm>/<uuid><ext>"
type Storage interface {
	Put(ctx context.Context, obj Object) (Stored, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Remove deletes an object; a missing key is not an error
	Remove(ctx context.Context, key string) error
	Mode() string
}

// NewStorage creates a storage backend from configuration
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "", ModeLocal:
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", ModeAzure:
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

func objectKey(panel, filename string, now time.Time) string {
	panel = strings.Trim(path.Clean("/"+panel), "/")
	if panel == "" {
		panel = "misc"
	}
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(panel, now.Format("2006/01"), uuid.NewString()+ext)
}

// LocalStorage keeps the archive in a directory tree
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if needed
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{root: root}, nil
}

func (s *LocalStorage) Mode() string {
	return ModeLocal
}

// file maps a key below root; keys that clean to nothing are rejected
func (s *LocalStorage) file(key string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "" {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put writes through a temp file so readers never see a partial image
func (s *LocalStorage) Put(ctx context.Context, obj Object) (Stored, error) {
	key := objectKey(obj.Panel, obj.Filename, time.Now().UTC())
	target, err := s.file(key)
	if err != nil {
		return Stored{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Stored{}, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return Stored{}, fmt.Errorf("failed to create file: %w", err)
	}
	size, copyErr := io.Copy(tmp, obj.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		return Stored{}, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		_ = os.Remove(tmp.Name())
		return Stored{}, fmt.Errorf("failed to store file: %w", err)
	}

	return Stored{Key: key, Size: size}, nil
}

// Open returns the archived bytes
func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := s.file(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

// Remove deletes an archived file
func (s *LocalStorage) Remove(ctx context.Context, key string) error {
	name, err := s.file(key)
	if err != nil {
		return err
	}
	if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
