package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"livestream-sync/core/storage"
	"livestream-sync/core/utils"

	"github.com/minio/minio-go/v7"
)

// Store persists the serialized cache.
type Store interface {
	// Load returns the stored data, nil if nothing is stored yet.
	Load(ctx context.Context) ([]byte, error)
	// Save replaces the stored data.
	Save(ctx context.Context, data []byte) error
	// Remove deletes the stored data.
	Remove(ctx context.Context) error
	String() string
}

// FileStore keeps the cache in a local file.
type FileStore struct {
	Path string
}

func (s FileStore) String() string {
	return s.Path
}

// Load reads the cache file.
func (s FileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Save replaces the cache file atomically: a crash mid-write leaves the old file.
func (s FileStore) Save(ctx context.Context, data []byte) error {
	return utils.WriteFileAtomic(s.Path, data, 0o644)
}

// Remove deletes the cache file.
func (s FileStore) Remove(ctx context.Context) error {
	err := os.Remove(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ObjectStore keeps the cache as an object in a storage bucket.
type ObjectStore struct {
	Client storage.Client
	Bucket string
	Key    string
}

func (s ObjectStore) String() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}

// Load downloads the cache object.
func (s ObjectStore) Load(ctx context.Context) ([]byte, error) {
	obj, err := s.Client.GetObject(ctx, s.Bucket, s.Key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	defer obj.Close()

	// minio reports a missing object on first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// Save uploads the cache object, creating the bucket if needed.
func (s ObjectStore) Save(ctx context.Context, data []byte) error {
	exists, err := s.Client.BucketExists(ctx, s.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.Bucket, err)
	}
	if !exists {
		if err := s.Client.MakeBucket(ctx, s.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.Bucket, err)
		}
	}

	_, err = s.Client.PutObject(ctx, s.Bucket, s.Key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	return err
}

// Remove deletes the cache object.
func (s ObjectStore) Remove(ctx context.Context) error {
	return s.Client.RemoveObject(ctx, s.Bucket, s.Key, minio.RemoveObjectOptions{})
}

// NewStore builds the store selected by cfg. client may be nil for the file backend.
func NewStore(cfg Config, client storage.Client, bucket string) (Store, error) {
	switch cfg.Backend {
	case "file", "":
		return FileStore{Path: cfg.CacheFile}, nil
	case "s3":
		if client == nil {
			return nil, errors.New("thumbnail cache backend s3 needs storage credentials")
		}
		return ObjectStore{Client: client, Bucket: bucket, Key: cfg.CacheObject}, nil
	default:
		return nil, fmt.Errorf("unknown thumbnail cache backend %q", cfg.Backend)
	}
}
