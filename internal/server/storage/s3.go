package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/roomreel/roomreel/internal/logging"
	sc "github.com/roomreel/roomreel/internal/server/config"
)

// SDK calls are wrapped in package-level vars so tests can inject failures
// without a live backend.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	presignUploadPart = func(pc *s3.PresignClient, ctx context.Context, in *s3.UploadPartInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignUploadPart(ctx, in, optFns...)
	}

	createMultipartUpload = func(c *s3.Client, ctx context.Context, in *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
		return c.CreateMultipartUpload(ctx, in, optFns...)
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
)

const deleteTimeout = time.Minute

// S3Gateway implements Gateway over an S3-compatible backend (AWS S3,
// MinIO). The client is constructed once at startup and injected where
// needed.
type S3Gateway struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	logger  logging.Logger
}

// NewS3Gateway builds the S3 client from static credentials and an optional
// base endpoint override (MinIO-style deployments).
func NewS3Gateway(config *sc.Config, logger logging.Logger) (*S3Gateway, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.S3RootUser,
			config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(config.S3BaseEndpoint)
		}
	})

	return &S3Gateway{
		client:  client,
		presign: newS3PresignClient(client),
		bucket:  config.S3Bucket,
		expiry:  config.PresignExpiry,
		logger:  logger.With("component", "storage"),
	}, nil
}

func (g *S3Gateway) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	req, err := presignPutObject(g.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(g.expiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (g *S3Gateway) CreateMultipart(ctx context.Context, key string) (string, error) {
	out, err := createMultipartUpload(g.client, ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", err
	}

	return aws.ToString(out.UploadId), nil
}

func (g *S3Gateway) PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int32) (string, error) {
	req, err := presignUploadPart(g.presign, ctx, &s3.UploadPartInput{
		Bucket:     aws.String(g.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(partNumber),
	}, s3.WithPresignExpires(g.expiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// DeleteAsync fires the deletion in the background. The outcome never
// reaches the caller of the upload request; it is only logged so an external
// sweep job has a trail of leaked objects.
func (g *S3Gateway) DeleteAsync(key string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
		defer cancel()

		_, err := deleteObject(g.client, ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(g.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			g.logger.Warn(ctx, "best-effort object deletion failed", "key", key, "error", err)
			return
		}
		g.logger.Info(ctx, "superseded object deleted", "key", key)
	}()
}
