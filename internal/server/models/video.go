// Package models defines server-side data models persisted in the database
// and the upload-session values exchanged with the object storage layer.
package models

import "time"

// PrivacyStatus is the visibility of a published video.
type PrivacyStatus string

const (
	PrivacyPrivate  PrivacyStatus = "PRIVATE"
	PrivacyPublic   PrivacyStatus = "PUBLIC"
	PrivacyUnlisted PrivacyStatus = "UNLISTED"
)

// ParsePrivacyStatus maps the wire-level lowercase value to its enum. The
// second return is false for unknown values and for the empty string.
func ParsePrivacyStatus(s string) (PrivacyStatus, bool) {
	switch s {
	case "private":
		return PrivacyPrivate, true
	case "public":
		return PrivacyPublic, true
	case "unlisted":
		return PrivacyUnlisted, true
	default:
		return "", false
	}
}

// Video is a room's video record together with its approval state.
// Asset key fields are non-empty only when the corresponding object was
// actually uploaded.
type Video struct {
	ID     string
	RoomID int64

	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PrivacyStatus PrivacyStatus

	// IsEditable is cleared by the publication workflow once a video leaves
	// the editable stage; edits are only accepted while it is set.
	IsEditable bool
	// IsApproved is true when publication is authorized.
	IsApproved bool
	// SentForApproval marks that the current revision entered the approval
	// workflow.
	SentForApproval bool
	IsPublished     bool

	VideoS3Key    string
	VideoFileSize int64
	VideoFileName string
	VideoType     string

	ThumbnailS3Key string
	ThumbnailSize  int64
	ThumbnailType  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VideoAssetFields is the asset portion of a video record replaced when the
// video file changes.
type VideoAssetFields struct {
	S3Key    string
	FileSize int64
	FileName string
	Type     string
}

// ThumbnailAssetFields is the asset portion replaced when the thumbnail
// changes.
type ThumbnailAssetFields struct {
	S3Key string
	Size  int64
	Type  string
}

// VideoPatch is an explicit partial update of a video record. Nil optional
// fields are left untouched by the repository; non-nil asset groups replace
// the whole group, including replacement with empty values when an asset was
// removed without a new payload.
type VideoPatch struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string

	// PrivacyStatus is applied only when non-nil.
	PrivacyStatus *PrivacyStatus

	IsApproved      bool
	SentForApproval bool

	// Video is applied only when the video file changed.
	Video *VideoAssetFields
	// Thumbnail is applied only when the thumbnail file changed.
	Thumbnail *ThumbnailAssetFields
}

// UnpublishedVideo is a listing row of a room's unpublished videos, scoped
// to a viewer for the approval indicator.
type UnpublishedVideo struct {
	ID              string
	Title           string
	Description     string
	Tags            []string
	CategoryID      string
	ThumbnailS3Key  string
	PrivacyStatus   PrivacyStatus
	IsEditable      bool
	IsApproved      bool
	VideoFileName   string
	VideoFileSize   int64
	VideoType       string
	SentForApproval bool

	// ApprovedByMe reports whether the requesting owner already approved
	// the current revision.
	ApprovedByMe bool
}
