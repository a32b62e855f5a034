package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	url, err := s.Put(ctx, "designs/u1/f1.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/designs/u1/f1.png", url)

	ok, err := s.Exists(ctx, "designs/u1/f1.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "designs/u1/f1.png")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png-bytes", string(body))

	require.NoError(t, s.Delete(ctx, "designs/u1/f1.png"))
	require.NoError(t, s.Delete(ctx, "designs/u1/f1.png"))

	ok, err = s.Exists(ctx, "designs/u1/f1.png")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Get(ctx, "designs/u1/f1.png")
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, codeNotFound, se.Code)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), "text/plain")
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, codeInvalid, se.Code)
}

func TestResolveURL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage("/uploads")
	_, err := s.Put(ctx, "products/mug.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "present", key: "products/mug.png", want: "/uploads/products/mug.png"},
		{name: "absent", key: "products/shirt.png", want: "/static/placeholder.png"},
		{name: "empty key", key: "", want: "/static/placeholder.png"},
		{name: "invalid key", key: "../secret", want: "/static/placeholder.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveURL(ctx, s, tt.key, "/static/placeholder.png"))
		})
	}
}

func TestDesignKey(t *testing.T) {
	assert.Equal(t, "designs/u1/f1.pdf", DesignKey("u1", "f1", "Logo Final.PDF"))
	assert.Equal(t, "designs/u1/f2", DesignKey("u1", "f2", "noext"))
}

type fakeS3 struct {
	headErr error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, &types.NoSuchKey{}
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestR2Storage_Exists(t *testing.T) {
	tests := []struct {
		name    string
		headErr error
		want    bool
		wantErr bool
	}{
		{name: "found", want: true},
		{name: "typed not found", headErr: &types.NotFound{}},
		{name: "generic 404", headErr: &smithy.GenericAPIError{Code: "NotFound"}},
		{name: "access denied", headErr: &smithy.GenericAPIError{Code: "AccessDenied"}, wantErr: true},
		{name: "network", headErr: errors.New("dial tcp: timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newR2WithClient(&fakeS3{headErr: tt.headErr}, "bucket", "https://cdn.example.com/")
			ok, err := s.Exists(context.Background(), "designs/a.png")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestR2Storage_URLAndGet(t *testing.T) {
	s := newR2WithClient(&fakeS3{}, "bucket", "https://cdn.example.com/")
	assert.Equal(t, "https://cdn.example.com/designs/a.png", s.URL("designs/a.png"))

	url, err := s.Put(context.Background(), "designs/a.png", strings.NewReader("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/designs/a.png", url)

	_, err = s.Get(context.Background(), "designs/missing.png")
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, codeNotFound, se.Code)
}
