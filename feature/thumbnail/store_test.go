package thumbnail

import (
	"context"
	"testing"

	"livestream-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObjectStore_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("GetObject", ctx, "bucket", "state/cache.txt", minio.GetObjectOptions{}).
			Return(mocks.Object("A|a.png\n"), nil)

		data, err := ObjectStore{Client: client, Bucket: "bucket", Key: "state/cache.txt"}.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "A|a.png\n", string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("GetObject", ctx, "bucket", "state/cache.txt", minio.GetObjectOptions{}).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

		c, err := Load(ctx, ObjectStore{Client: client, Bucket: "bucket", Key: "state/cache.txt"}, nil)
		require.NoError(t, err)
		assert.Empty(t, c.Entries())
	})

	t.Run("AccessDenied", func(t *testing.T) {
		client := &mocks.Client{}
		client.On("GetObject", ctx, "bucket", "state/cache.txt", minio.GetObjectOptions{}).
			Return(nil, minio.ErrorResponse{Code: "AccessDenied"})

		_, err := Load(ctx, ObjectStore{Client: client, Bucket: "bucket", Key: "state/cache.txt"}, nil)
		assert.Error(t, err)
	})
}

func TestObjectStore_Save(t *testing.T) {
	ctx := context.Background()
	client := &mocks.Client{}
	client.On("BucketExists", ctx, "bucket").Return(false, nil)
	client.On("MakeBucket", ctx, "bucket", minio.MakeBucketOptions{}).Return(nil)
	client.On("PutObject", ctx, "bucket", "state/cache.txt", mock.Anything, int64(8), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	err := ObjectStore{Client: client, Bucket: "bucket", Key: "state/cache.txt"}.Save(ctx, []byte("A|a.png\n"))
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestNewStore(t *testing.T) {
	s, err := NewStore(Config{Backend: "file", CacheFile: "x.txt"}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, "x.txt", s.String())

	_, err = NewStore(Config{Backend: "s3"}, nil, "bucket")
	assert.Error(t, err)

	s, err = NewStore(Config{Backend: "s3", CacheObject: "state/c.txt"}, &mocks.Client{}, "bucket")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/state/c.txt", s.String())

	_, err = NewStore(Config{Backend: "ftp"}, nil, "")
	assert.Error(t, err)
}
