package storage_test

import (
	"errors"
	"testing"

	"livestream-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.True(t, cfg.Enabled())
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("NoCredentials", func(t *testing.T) {
		assert.False(t, storage.Config{Endpoint: "localhost:9000"}.Enabled())
	})
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		bucket     string
		key        string
		wantParsed bool
	}{
		{"s3://thumbs/default.png", "thumbs", "default.png", true},
		{"s3://thumbs/2026/easter.jpg", "thumbs", "2026/easter.jpg", true},
		{"s3://thumbs", "", "", false},
		{"s3:///key", "", "", false},
		{"https://example.com/a.png", "", "", false},
		{"/srv/thumbs/a.png", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, ok := storage.ParseURI(tt.uri)
			assert.Equal(t, tt.wantParsed, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, storage.IsNotFound(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, storage.IsNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, storage.IsNotFound(errors.New("boom")))
}
