package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Download when no object exists at the path
var ErrNotFound = errors.New("stored object not found")

// Kind groups stored objects under a top-level prefix
type Kind string

const (
	KindDraft      Kind = "drafts"
	KindAttachment Kind = "attachments"
)

// Object identifies something to be stored
type Object struct {
	Kind     Kind
	ID       uuid.UUID
	Filename string
}

// Storage is the blob store behind draft exports and case attachments
type Storage interface {
	// Upload stores data and returns the storage path to persist
	Upload(ctx context.Context, obj Object, data io.Reader) (string, error)

	// Download opens a previously stored object
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an object; deleting a missing object is not an error
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("s3 storage requires a bucket")
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// ObjectPath builds the storage path for an object:
// <kind>/<first two chars of id>/<id>_<sanitized name><ext>
func ObjectPath(obj Object) string {
	ext := filepath.Ext(obj.Filename)
	baseName := sanitize(strings.TrimSuffix(obj.Filename, ext))
	if baseName == "" {
		baseName = "file"
	}
	kind := obj.Kind
	if kind == "" {
		kind = KindAttachment
	}
	id := obj.ID.String()
	return fmt.Sprintf("%s/%s/%s_%s%s", kind, id[:2], id, baseName, strings.ToLower(ext))
}

func sanitize(name string) string {
	r := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_")
	return strings.Trim(r.Replace(strings.TrimSpace(name)), "._")
}

// ContentType determines the MIME type from a filename extension
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
