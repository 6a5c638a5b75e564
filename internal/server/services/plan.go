package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roomreel/roomreel/internal/server/models"
	"github.com/roomreel/roomreel/internal/server/storage"
)

// PartSizeBytes is the fixed multipart part size. 500 MB (decimal) is the
// object store's practical per-part ceiling.
const PartSizeBytes int64 = 500 * 1000 * 1000

// TotalParts returns ceil(size / PartSizeBytes). A non-positive size yields
// zero parts; rejecting empty files is the validation boundary's job, not
// this one's.
func TotalParts(size int64) int {
	if size <= 0 {
		return 0
	}
	return int((size + PartSizeBytes - 1) / PartSizeBytes)
}

// fileExtension derives an extension from a MIME type: the subtype after the
// slash ("video/mp4" -> "mp4").
func fileExtension(contentType string) string {
	if _, ext, ok := strings.Cut(contentType, "/"); ok {
		return ext
	}
	return ""
}

// StorageKey builds a globally unique object key without coordination:
// {roomName}_{uuid}.{extension}.
func StorageKey(roomName, contentType string) string {
	return fmt.Sprintf("%s_%s.%s", roomName, uuid.New(), fileExtension(contentType))
}

// buildThumbnailPlan prepares a fresh key and a single presigned PUT URL for
// a changed thumbnail.
func buildThumbnailPlan(ctx context.Context, store storage.Gateway, roomName string, file *FileInfo) (*models.ThumbnailUploadPlan, error) {
	key := StorageKey(roomName, file.Type)

	url, err := store.PresignPut(ctx, key, file.Type)
	if err != nil {
		return nil, fmt.Errorf("thumbnail presign error: %w", err)
	}

	return &models.ThumbnailUploadPlan{
		Key:  key,
		Size: file.Size,
		Type: file.Type,
		URL:  url,
	}, nil
}

// buildVideoPlan prepares a fresh key, initiates a multipart upload and
// issues one presigned URL per part. The part URLs are independent, so they
// are requested concurrently; the result keeps part-number order.
func buildVideoPlan(ctx context.Context, store storage.Gateway, roomName string, file *FileInfo) (*models.VideoUploadPlan, error) {
	key := StorageKey(roomName, file.Type)

	uploadID, err := store.CreateMultipart(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("multipart initiation error: %w", err)
	}

	totalParts := TotalParts(file.Size)
	parts := make([]models.PartURL, totalParts)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < totalParts; i++ {
		partNumber := int32(i + 1)
		idx := i
		g.Go(func() error {
			url, err := store.PresignUploadPart(gctx, key, uploadID, partNumber)
			if err != nil {
				return err
			}
			parts[idx] = models.PartURL{PartNumber: partNumber, SignedURL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("part presign error: %w", err)
	}

	return &models.VideoUploadPlan{
		Key:      key,
		UploadID: uploadID,
		FileSize: file.Size,
		FileName: file.Name,
		Type:     file.Type,
		Parts:    parts,
	}, nil
}
