package s3_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/chatkit/integration/storage/s3"
)

type mockClient struct {
	lastInput *s3aws.PutObjectInput
	err       error
}

func (m *mockClient) PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	m.lastInput = params
	if m.err != nil {
		return nil, m.err
	}
	return &s3aws.PutObjectOutput{}, nil
}

type apiError struct {
	code string
}

func (e *apiError) Error() string         { return e.code }
func (e *apiError) ErrorCode() string     { return e.code }
func (e *apiError) ErrorMessage() string  { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultServer }

func newUploader(t *testing.T, client *mockClient, cfg s3.Config) *s3.Uploader {
	t.Helper()
	u, err := s3.NewUploader(context.Background(), cfg, s3.WithClient(client))
	require.NoError(t, err)
	return u
}

func TestNewUploader(t *testing.T) {
	t.Run("missing bucket", func(t *testing.T) {
		_, err := s3.NewUploader(context.Background(), s3.Config{Region: "us-east-1"})
		assert.ErrorIs(t, err, s3.ErrInvalidConfig)
	})

	t.Run("missing region", func(t *testing.T) {
		_, err := s3.NewUploader(context.Background(), s3.Config{Bucket: "avatars"})
		assert.ErrorIs(t, err, s3.ErrInvalidConfig)
	})
}

func TestUploader_Upload(t *testing.T) {
	cfg := s3.Config{Bucket: "media", Region: "us-east-1", KeyPrefix: "avatars"}

	t.Run("stores under content-addressed key", func(t *testing.T) {
		client := &mockClient{}
		u := newUploader(t, client, cfg)

		url, err := u.Upload(context.Background(), []byte("png-bytes"), "image/png")
		require.NoError(t, err)

		require.NotNil(t, client.lastInput)
		assert.Equal(t, "media", *client.lastInput.Bucket)
		assert.True(t, strings.HasPrefix(*client.lastInput.Key, "avatars/"))
		assert.True(t, strings.HasSuffix(*client.lastInput.Key, ".png"))
		assert.Equal(t, "image/png", *client.lastInput.ContentType)

		body, err := io.ReadAll(client.lastInput.Body)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(body))

		assert.Equal(t, "https://media.s3.us-east-1.amazonaws.com/"+*client.lastInput.Key, url)
	})

	t.Run("identical bytes map to the same key", func(t *testing.T) {
		client := &mockClient{}
		u := newUploader(t, client, cfg)

		first, err := u.Upload(context.Background(), []byte("same"), "image/png")
		require.NoError(t, err)
		second, err := u.Upload(context.Background(), []byte("same"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("empty payload", func(t *testing.T) {
		u := newUploader(t, &mockClient{}, cfg)
		_, err := u.Upload(context.Background(), nil, "image/png")
		assert.Error(t, err)
	})

	t.Run("error classification", func(t *testing.T) {
		for _, tc := range []struct {
			code string
			want error
		}{
			{"AccessDenied", s3.ErrAccessDenied},
			{"NoSuchBucket", s3.ErrBucketNotFound},
			{"SlowDown", s3.ErrUnavailable},
		} {
			t.Run(tc.code, func(t *testing.T) {
				client := &mockClient{err: &apiError{code: tc.code}}
				u := newUploader(t, client, cfg)

				_, err := u.Upload(context.Background(), []byte("x"), "image/png")
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})

	t.Run("unclassified errors pass through", func(t *testing.T) {
		cause := errors.New("boom")
		client := &mockClient{err: cause}
		u := newUploader(t, client, cfg)

		_, err := u.Upload(context.Background(), []byte("x"), "image/png")
		assert.ErrorIs(t, err, cause)
	})
}

func TestUploader_URLStyles(t *testing.T) {
	client := &mockClient{}

	t.Run("custom base url", func(t *testing.T) {
		u := newUploader(t, client, s3.Config{
			Bucket: "media", Region: "us-east-1", BaseURL: "https://cdn.example.com/",
		})
		url, err := u.Upload(context.Background(), []byte("x"), "image/png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/"), url)
	})

	t.Run("path-style endpoint", func(t *testing.T) {
		u := newUploader(t, client, s3.Config{
			Bucket: "media", Region: "us-east-1",
			Endpoint: "http://localhost:9000", ForcePathStyle: true,
		})
		url, err := u.Upload(context.Background(), []byte("x"), "image/png")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/media/"), url)
	})
}
