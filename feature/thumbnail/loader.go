package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"livestream-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Loader opens thumbnail images.
type Loader struct {
	storage   storage.Client
	http      *http.Client
	directory string
}

// NewLoader creates a loader. client may be nil when no thumbnail lives in
// object storage.
func NewLoader(client storage.Client, directory string) *Loader {
	return &Loader{
		storage:   client,
		http:      &http.Client{Timeout: 30 * time.Second},
		directory: directory,
	}
}

// Open returns the image behind uri.
func (l *Loader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if bucket, key, ok := storage.ParseURI(uri); ok {
		if l.storage == nil {
			return nil, fmt.Errorf("thumbnail %s: object storage is not configured", uri)
		}
		return l.storage.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	}

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.http.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, errors.New(resp.Status)
		}
		return resp.Body, nil
	}

	path := uri
	if !filepath.IsAbs(path) && l.directory != "" {
		path = filepath.Join(l.directory, path)
	}
	return os.Open(path)
}

// ListImages lists the thumbnail images stored under prefix in bucket.
func (l *Loader) ListImages(ctx context.Context, bucket, prefix string) ([]string, error) {
	if l.storage == nil {
		return nil, errors.New("object storage is not configured")
	}
	var uris []string
	for obj := range l.storage.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		uris = append(uris, fmt.Sprintf("s3://%s/%s", bucket, obj.Key))
	}
	return uris, nil
}
