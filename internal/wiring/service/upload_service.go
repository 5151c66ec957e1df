package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	ErrNoFile            = errors.New("no file provided")
	ErrNoFilename        = errors.New("no file selected")
	ErrUnsupportedMedia  = errors.New("invalid file type")
	ErrStorageNotEnabled = errors.New("file storage not configured")
)

// AllowedImageExtensions are the upload extensions accepted, compared case-insensitively.
var AllowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

const uploadURLPrefix = "/uploads/"

// FileStore persists uploaded files under a flat namespace of generated names.
type FileStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

type UploadService struct {
	store  FileStore
	logger *zap.Logger
}

func NewUploadService(store FileStore, logger *zap.Logger) *UploadService {
	return &UploadService{store: store, logger: logger}
}

// CheckFilename validates the client-supplied filename and returns the
// sanitized form that will be stored.
func CheckFilename(name string) (string, error) {
	if name == "" {
		return "", ErrNoFilename
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if !AllowedImageExtensions[strings.ToLower(ext)] {
		return "", ErrUnsupportedMedia
	}
	safe := SecureFilename(name)
	if safe == "" {
		return "", ErrUnsupportedMedia
	}
	return safe, nil
}

// Save stores r under "<token>_<sanitized name>" and returns its URL path.
func (s *UploadService) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	safe, err := CheckFilename(filename)
	if err != nil {
		return "", err
	}
	if s.store == nil {
		return "", ErrStorageNotEnabled
	}

	stored := newID() + "_" + safe
	contentType := mime.TypeByExtension(filepath.Ext(safe))
	if err := s.store.Put(ctx, stored, r, size, contentType); err != nil {
		s.logger.Error("Failed to store upload", zap.String("filename", stored), zap.Error(err))
		return "", fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("File uploaded", zap.String("filename", stored), zap.Int64("size", size))
	return uploadURLPrefix + stored, nil
}

// Open returns a previously stored file. Names that do not survive
// sanitization unchanged are reported as not found.
func (s *UploadService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if s.store == nil {
		return nil, ErrStorageNotEnabled
	}
	if name == "" || SecureFilename(name) != name {
		return nil, ErrNotFound
	}
	return s.store.Open(ctx, name)
}

// LocalStore keeps uploads in a directory on local disk.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if it does not exist.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// MinIOStore keeps uploads as objects in a single bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore creates bucket when it is missing.
func NewMinIOStore(ctx context.Context, client *minio.Client, bucket string) (*MinIOStore, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket: %w", err)
		}
	}
	return &MinIOStore{client: client, bucket: bucket}, nil
}

func (s *MinIOStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinIOStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}
	object, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return object, nil
}
