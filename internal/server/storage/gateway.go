// Package storage is the object-storage gateway: it issues presigned upload
// URLs, drives multipart upload initiation and performs best-effort object
// deletion against an S3-compatible backend.
package storage

import "context"

// Gateway abstracts the object store operations the upload orchestration
// needs. No local state is kept beyond the configured client.
type Gateway interface {
	// PresignPut issues a presigned single-shot PUT URL for key.
	PresignPut(ctx context.Context, key, contentType string) (string, error)

	// CreateMultipart initiates a multipart upload for key and returns the
	// backend upload id.
	CreateMultipart(ctx context.Context, key string) (string, error)

	// PresignUploadPart issues a presigned URL for one part of an initiated
	// multipart upload. Part numbers are 1-indexed.
	PresignUploadPart(ctx context.Context, key, uploadID string, partNumber int32) (string, error)

	// DeleteAsync schedules best-effort deletion of key. Failures are
	// logged, never returned; the superseded object may leak.
	DeleteAsync(key string)
}
