package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the part of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, in *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// stagingPrefix holds uploads whose submission has not committed yet.
const stagingPrefix = ".staging/"

// S3Store keeps pictures in a bucket under their bare file name.
type S3Store struct {
	client S3API
	bucket string
}

func NewS3Store(client S3API, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// NewS3Client builds a client for an S3 compatible endpoint with static credentials.
func NewS3Client(ctx context.Context, accessKeyID, accessKeySecret, region, baseEndpoint string) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading S3 config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Create buffers the picture and uploads it under a staging key on Close.
// Pictures are capped by the request size limit so buffering stays small.
func (s *S3Store) Create(ctx context.Context, d Descriptor) (Staged, error) {
	if d.Filename == "" {
		return nil, fmt.Errorf("no destination for rejected file")
	}
	return &s3Staged{ctx: ctx, store: s, d: d, key: stagingPrefix + uuid.NewString()}, nil
}

type s3Staged struct {
	ctx       context.Context
	store     *S3Store
	d         Descriptor
	key       string
	buf       bytes.Buffer
	uploaded  bool
	committed bool
}

func (w *s3Staged) Descriptor() Descriptor {
	return w.d
}

func (w *s3Staged) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *s3Staged) Close() error {
	_, err := w.store.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.store.bucket),
		Key:           aws.String(w.key),
		Body:          bytes.NewReader(w.buf.Bytes()),
		ContentLength: aws.Int64(int64(w.buf.Len())),
		ContentType:   aws.String(w.d.MediaType),
	})
	if err != nil {
		return fmt.Errorf("error uploading %s: %w", w.d.Filename, err)
	}
	w.uploaded = true
	uploadLogger.Debug().Str("bucket", w.store.bucket).Str("key", w.key).Int("bytes", w.buf.Len()).Msg("Picture staged")
	return nil
}

// Commit copies the staged object to its file name and drops the staging key.
func (w *s3Staged) Commit(ctx context.Context) error {
	_, err := w.store.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(w.store.bucket),
		CopySource: aws.String(url.PathEscape(w.store.bucket) + "/" + w.key),
		Key:        aws.String(w.d.Filename),
	})
	if err != nil {
		return fmt.Errorf("error storing %s: %w", w.d.Filename, err)
	}
	w.committed = true
	if err := w.deleteStaged(ctx); err != nil {
		uploadLogger.Warn().Err(err).Str("key", w.key).Msg("Failed to delete staged picture")
	}
	return nil
}

func (w *s3Staged) Discard(ctx context.Context) error {
	if w.committed || !w.uploaded {
		return nil
	}
	return w.deleteStaged(ctx)
}

func (w *s3Staged) deleteStaged(ctx context.Context) error {
	_, err := w.store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(w.store.bucket),
		Key:    aws.String(w.key),
	})
	return err
}
