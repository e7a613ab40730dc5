// Package s3 uploads profile pictures to Amazon S3 or an S3-compatible
// service (MinIO, Wasabi, R2) and returns the stored object's public URL.
//
// The uploader derives a content-addressed key from the picture bytes, so
// re-uploading the same image is idempotent and yields the same URL.
//
// Usage:
//
//	var cfg s3.Config
//	config.MustLoad(&cfg)
//
//	uploader, err := s3.NewUploader(ctx, cfg)
//	if err != nil {
//		return err
//	}
//
//	url, err := uploader.Upload(ctx, picture, "image/png")
package s3
