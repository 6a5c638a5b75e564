package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"

	"github.com/roomreel/roomreel/internal/logging"
	sc "github.com/roomreel/roomreel/internal/server/config"
)

func testConfig() *sc.Config {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.S3Bucket = "test-bucket"
	cfg.PresignExpiry = 24 * time.Hour
	return cfg
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
}

func newTestGateway(t *testing.T) *S3Gateway {
	t.Helper()
	g, err := NewS3Gateway(testConfig(), testLogger())
	require.NoError(t, err)
	return g
}

func TestPresignPut_UsesBucketKeyAndContentType(t *testing.T) {
	var got *s3.PutObjectInput
	orig := presignPutObject
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		got = in
		return &v4.PresignedHTTPRequest{URL: "https://signed.example/put"}, nil
	}
	defer func() { presignPutObject = orig }()

	g := newTestGateway(t)
	url, err := g.PresignPut(context.Background(), "room_abc.png", "image/png")
	require.NoError(t, err)
	require.Equal(t, "https://signed.example/put", url)
	require.Equal(t, "test-bucket", aws.ToString(got.Bucket))
	require.Equal(t, "room_abc.png", aws.ToString(got.Key))
	require.Equal(t, "image/png", aws.ToString(got.ContentType))
}

func TestPresignPut_Error(t *testing.T) {
	orig := presignPutObject
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("backend down")
	}
	defer func() { presignPutObject = orig }()

	g := newTestGateway(t)
	_, err := g.PresignPut(context.Background(), "k", "image/png")
	require.Error(t, err)
}

func TestCreateMultipart_ReturnsUploadID(t *testing.T) {
	orig := createMultipartUpload
	createMultipartUpload = func(c *s3.Client, ctx context.Context, in *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
		require.Equal(t, "test-bucket", aws.ToString(in.Bucket))
		return &s3.CreateMultipartUploadOutput{UploadId: aws.String("upload-42")}, nil
	}
	defer func() { createMultipartUpload = orig }()

	g := newTestGateway(t)
	id, err := g.CreateMultipart(context.Background(), "room_abc.mp4")
	require.NoError(t, err)
	require.Equal(t, "upload-42", id)
}

func TestPresignUploadPart_PassesPartNumber(t *testing.T) {
	var got *s3.UploadPartInput
	orig := presignUploadPart
	presignUploadPart = func(pc *s3.PresignClient, ctx context.Context, in *s3.UploadPartInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		got = in
		return &v4.PresignedHTTPRequest{URL: "https://signed.example/part"}, nil
	}
	defer func() { presignUploadPart = orig }()

	g := newTestGateway(t)
	url, err := g.PresignUploadPart(context.Background(), "room_abc.mp4", "upload-42", 3)
	require.NoError(t, err)
	require.Equal(t, "https://signed.example/part", url)
	require.Equal(t, "upload-42", aws.ToString(got.UploadId))
	require.Equal(t, int32(3), aws.ToInt32(got.PartNumber))
}

func TestDeleteAsync_SwallowsFailure(t *testing.T) {
	done := make(chan struct{})
	orig := deleteObject
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		defer close(done)
		require.Equal(t, "old-key", aws.ToString(in.Key))
		return nil, errors.New("delete failed")
	}
	defer func() { deleteObject = orig }()

	g := newTestGateway(t)
	g.DeleteAsync("old-key")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deletion was never attempted")
	}
}
