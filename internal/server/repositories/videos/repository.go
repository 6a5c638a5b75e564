package videos

import (
	"context"

	"github.com/roomreel/roomreel/internal/server/models"
)

type Repository interface {
	// Create inserts a new video record attached to the room by name. The
	// caller supplies the id.
	Create(ctx context.Context, roomName string, v *models.Video) error

	// Update applies an explicit partial update to an existing record.
	// Exactly one row must be affected.
	Update(ctx context.Context, id string, p *models.VideoPatch) error

	// CountEditable counts unpublished, editable videos in the named room
	// matching id; the edit precondition holds only when it returns 1.
	CountEditable(ctx context.Context, roomName, id string) (int, error)

	// AssetKeys returns the current video and thumbnail storage keys, or
	// common.ErrorNotFound.
	AssetKeys(ctx context.Context, id string) (videoKey, thumbnailKey string, err error)

	// ClearApprovals empties the per-owner approval set of a video.
	ClearApprovals(ctx context.Context, id string) error

	// ListUnpublished returns the room's unpublished videos with the
	// approval indicator scoped to the viewer's email.
	ListUnpublished(ctx context.Context, roomName, viewerEmail string) ([]*models.UnpublishedVideo, error)
}
