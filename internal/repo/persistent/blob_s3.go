package persistent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/anonshare/anonshare/pkg/s3client"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3BlobRepo is the blob store on an S3-compatible backend, for deployments
// where artifact files should not live on the local disk.
type S3BlobRepo struct {
	*s3client.S3Client
	bucket string
}

func NewS3BlobRepo(s3c *s3client.S3Client, bucket string) *S3BlobRepo {
	return &S3BlobRepo{s3c, bucket}
}

func (r *S3BlobRepo) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := r.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("S3BlobRepo - Upload - r.Client.PutObject: %w", err)
	}

	return nil
}

func (r *S3BlobRepo) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	result, err := r.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("S3BlobRepo - Download - r.Client.GetObject: %w", err)
	}

	return result.Body, nil
}

func (r *S3BlobRepo) DownloadBytes(ctx context.Context, key string) ([]byte, error) {
	body, err := r.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("S3BlobRepo - DownloadBytes: %w", err)
	}
	defer body.Close()

	b, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("S3BlobRepo - DownloadBytes - io.ReadAll: %w", err)
	}

	return b, nil
}

func (r *S3BlobRepo) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}

		return false, fmt.Errorf("S3BlobRepo - Exists - r.Client.HeadObject: %w", err)
	}

	return true, nil
}

func (r *S3BlobRepo) Delete(ctx context.Context, key string) error {
	_, err := r.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("S3BlobRepo - Delete - r.Client.DeleteObject: %w", err)
	}

	return nil
}
