package s3

import "errors"

var (
	// ErrInvalidConfig is returned when required configuration is missing.
	ErrInvalidConfig = errors.New("s3: bucket and region are required")

	// ErrAccessDenied is returned when the credentials lack permission for
	// the bucket.
	ErrAccessDenied = errors.New("s3: access denied")

	// ErrBucketNotFound is returned when the configured bucket does not
	// exist.
	ErrBucketNotFound = errors.New("s3: bucket not found")

	// ErrUnavailable is returned for throttling and availability failures.
	// The operation may be retried.
	ErrUnavailable = errors.New("s3: service unavailable")

	// ErrUploadTimeout is returned when the upload deadline expires.
	ErrUploadTimeout = errors.New("s3: upload timed out")
)
