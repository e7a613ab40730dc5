package s3

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// Config contains S3 uploader configuration.
type Config struct {
	Bucket         string `env:"S3_BUCKET,required"`
	Region         string `env:"S3_REGION,required"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	BaseURL        string `env:"S3_BASE_URL"`
	KeyPrefix      string `env:"S3_KEY_PREFIX" envDefault:"avatars"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`

	UploadTimeout time.Duration `env:"S3_UPLOAD_TIMEOUT" envDefault:"30s"`
}

// PutObjectAPI is the slice of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
}

// Uploader stores profile pictures in an S3 bucket.
type Uploader struct {
	client         PutObjectAPI
	bucket         string
	region         string
	endpoint       string
	baseURL        string
	keyPrefix      string
	forcePathStyle bool
	uploadTimeout  time.Duration
}

// UploaderOption configures the uploader.
type UploaderOption func(*Uploader)

// WithClient sets a pre-configured S3 client, mainly for tests.
func WithClient(client PutObjectAPI) UploaderOption {
	return func(u *Uploader) {
		if client != nil {
			u.client = client
		}
	}
}

// NewUploader creates an S3 uploader. Static credentials are used when
// provided; otherwise the default AWS credential chain applies.
func NewUploader(ctx context.Context, cfg Config, opts ...UploaderOption) (*Uploader, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	u := &Uploader{
		bucket:         cfg.Bucket,
		region:         cfg.Region,
		endpoint:       cfg.Endpoint,
		baseURL:        cfg.BaseURL,
		keyPrefix:      strings.Trim(cfg.KeyPrefix, "/"),
		forcePathStyle: cfg.ForcePathStyle,
		uploadTimeout:  cfg.UploadTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}

	if u.client == nil {
		awsOptions := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(cfg.Region),
		}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			awsOptions = append(awsOptions,
				awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretKey,
					"",
				)),
			)
		}

		awsConfig, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
		if err != nil {
			return nil, fmt.Errorf("s3: load aws config: %w", err)
		}

		u.client = s3aws.NewFromConfig(awsConfig, func(o *s3aws.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return u, nil
}

// Upload stores the picture bytes and returns the object's public URL. The
// object key is derived from a digest of the bytes, so identical uploads
// map to the same object.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("s3: empty payload")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if u.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.uploadTimeout)
		defer cancel()
	}

	key := u.objectKey(data, contentType)

	_, err := u.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", classifyError(err)
	}

	return u.objectURL(key), nil
}

func (u *Uploader) objectKey(data []byte, contentType string) string {
	sum := sha256.Sum256(data)
	name := hex.EncodeToString(sum[:]) + extensionFor(contentType)
	if u.keyPrefix == "" {
		return name
	}
	return u.keyPrefix + "/" + name
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// objectURL builds the public URL: a custom base URL wins, then a custom
// endpoint (path-style or virtual-hosted), then the standard AWS format.
func (u *Uploader) objectURL(key string) string {
	if u.baseURL != "" {
		return strings.TrimSuffix(u.baseURL, "/") + "/" + key
	}

	if u.endpoint != "" {
		endpoint := strings.TrimSuffix(u.endpoint, "/")
		protocol := "https://"
		if after, ok := strings.CutPrefix(endpoint, "http://"); ok {
			protocol = "http://"
			endpoint = after
		} else if after, ok := strings.CutPrefix(endpoint, "https://"); ok {
			endpoint = after
		}

		if u.forcePathStyle {
			return fmt.Sprintf("%s%s/%s/%s", protocol, endpoint, u.bucket, key)
		}
		return fmt.Sprintf("%s%s.%s/%s", protocol, u.bucket, endpoint, key)
	}

	if u.forcePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", u.region, u.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

// classifyError maps S3 failures onto the package's sentinel errors so
// callers can branch without importing AWS types.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUploadTimeout, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied":
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		case "NoSuchBucket":
			return fmt.Errorf("%w: %v", ErrBucketNotFound, err)
		case "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return fmt.Errorf("s3: upload: %w", err)
}
