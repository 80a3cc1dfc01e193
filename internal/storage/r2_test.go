package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"dyno/internal/ml"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	objects map[string][]byte
}

func (f *fakeBucket) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestR2Store_SaveLoad(t *testing.T) {
	bucket := &fakeBucket{objects: map[string][]byte{}}
	s := newR2Store(bucket, "models", "order-predictor.json")
	ctx := context.Background()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ml.ErrBundleMissing)

	require.NoError(t, s.Save(ctx, sampleBundle(3)))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.TrainingRows)
	assert.Equal(t, "r2://models/order-predictor.json", s.Location())
}
