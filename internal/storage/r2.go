package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"dyno/internal/ml"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type R2Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Key       string
}

// objectAPI is the subset of the S3 client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// R2Store keeps the bundle as a single object in an S3-compatible bucket.
// A PutObject replaces the object atomically.
type R2Store struct {
	client objectAPI
	bucket string
	key    string
}

func NewR2Store(ctx context.Context, opts R2Options) (*R2Store, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				opts.AccessKey,
				opts.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return newR2Store(client, opts.Bucket, opts.Key), nil
}

func newR2Store(client objectAPI, bucket, key string) *R2Store {
	return &R2Store{client: client, bucket: bucket, key: key}
}

func (r *R2Store) Location() string {
	return fmt.Sprintf("r2://%s/%s", r.bucket, r.key)
}

func (r *R2Store) Save(ctx context.Context, b *ml.Bundle) error {
	data, err := ml.MarshalBundle(b)
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put bundle object: %w", err)
	}
	return nil
}

func (r *R2Store) Load(ctx context.Context) (*ml.Bundle, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ml.ErrBundleMissing
		}
		return nil, fmt.Errorf("get bundle object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read bundle object: %w", err)
	}
	return ml.UnmarshalBundle(data)
}
