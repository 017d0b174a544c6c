// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client. Object storage is optional: it serves
// thumbnail images referenced as "s3://bucket/key" and can hold the
// thumbnail cache when several hosts take turns running the sync.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	obj, err := client.GetObject(ctx, "thumbnails", "default.png", minio.GetObjectOptions{})
package storage
