// Package httpapi exposes the upload orchestration core over HTTP. It owns
// payload schema validation and the mapping of service errors to status
// codes; everything else is delegated to the services.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomreel/roomreel/internal/common"
	"github.com/roomreel/roomreel/internal/logging"
	"github.com/roomreel/roomreel/internal/server/auth"
	"github.com/roomreel/roomreel/internal/server/models"
	"github.com/roomreel/roomreel/internal/server/services"
)

// UploadService is the orchestration surface the handler depends on.
type UploadService interface {
	CreateOrUpdate(ctx context.Context, sess auth.Session, req *services.CreateUploadRequest) (*services.CreateUploadResponse, error)
}

// VideoService is the read surface the handler depends on.
type VideoService interface {
	ListUnpublished(ctx context.Context, sess auth.Session) ([]*models.UnpublishedVideo, error)
}

type Handler struct {
	uploads UploadService
	videos  VideoService
	logger  logging.Logger
}

func NewHandler(uploads UploadService, videos VideoService, logger logging.Logger) *Handler {
	return &Handler{uploads: uploads, videos: videos, logger: logger.With("component", "httpapi")}
}

type filePayload struct {
	Name string `json:"name" binding:"required"`
	Size int64  `json:"size" binding:"required,gt=0"`
	Type string `json:"type" binding:"required,contains=/"`
}

type createUploadVideoRequest struct {
	VideoID       string   `json:"videoId"`
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags" binding:"required"`
	CategoryID    string   `json:"categoryId" binding:"required"`
	PrivacyStatus string   `json:"privacyStatus" binding:"omitempty,oneof=private public unlisted"`

	ThumbnailFileChanged bool         `json:"thumbnailFileChanged"`
	ThumbnailFile        *filePayload `json:"thumbnailFile"`

	VideoFileChanged bool         `json:"videoFileChanged"`
	VideoFile        *filePayload `json:"videoFile"`
}

type partSignedURL struct {
	SignedURL  string `json:"signedUrl"`
	PartNumber int32  `json:"partNumber"`
}

type createUploadVideoResponse struct {
	ThumbnailPresignedURL string          `json:"thumbnailPresignedUrl,omitempty"`
	PartSignedURLList     []partSignedURL `json:"partSignedUrlList,omitempty"`
	Key                   string          `json:"key,omitempty"`
	UploadID              string          `json:"uploadId,omitempty"`
}

// CreateUploadVideo handles POST /api/create-upload-video.
func (h *Handler) CreateUploadVideo(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorised"})
		return
	}

	var payload createUploadVideoRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req := &services.CreateUploadRequest{
		VideoID:              payload.VideoID,
		Title:                payload.Title,
		Description:          payload.Description,
		Tags:                 payload.Tags,
		CategoryID:           payload.CategoryID,
		PrivacyStatus:        payload.PrivacyStatus,
		ThumbnailFileChanged: payload.ThumbnailFileChanged,
		VideoFileChanged:     payload.VideoFileChanged,
	}
	if payload.ThumbnailFile != nil {
		req.ThumbnailFile = &services.FileInfo{Name: payload.ThumbnailFile.Name, Size: payload.ThumbnailFile.Size, Type: payload.ThumbnailFile.Type}
	}
	if payload.VideoFile != nil {
		req.VideoFile = &services.FileInfo{Name: payload.VideoFile.Name, Size: payload.VideoFile.Size, Type: payload.VideoFile.Type}
	}

	resp, err := h.uploads.CreateOrUpdate(c.Request.Context(), sess, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := createUploadVideoResponse{
		ThumbnailPresignedURL: resp.ThumbnailPresignedURL,
		Key:                   resp.Key,
		UploadID:              resp.UploadID,
	}
	for _, p := range resp.PartSignedURLList {
		out.PartSignedURLList = append(out.PartSignedURLList, partSignedURL{SignedURL: p.SignedURL, PartNumber: p.PartNumber})
	}
	c.JSON(http.StatusOK, out)
}

type unpublishedVideoResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	CategoryID      string   `json:"categoryId"`
	ThumbnailKey    string   `json:"thumbnailKey"`
	PrivacyStatus   string   `json:"privacyStatus"`
	IsEditable      bool     `json:"isEditable"`
	IsApproved      bool     `json:"isApproved"`
	VideoFileName   string   `json:"videoFileName"`
	VideoFileSize   int64    `json:"videoFileSize"`
	VideoType       string   `json:"videoType"`
	SentForApproval bool     `json:"sentForApproval"`
	ApprovedByMe    bool     `json:"approvedByMe"`
}

// GetUnpublishedVideos handles GET /api/get-unpublished-videos.
func (h *Handler) GetUnpublishedVideos(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorised"})
		return
	}

	videos, err := h.videos.ListUnpublished(c.Request.Context(), sess)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]unpublishedVideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, unpublishedVideoResponse{
			ID:              v.ID,
			Title:           v.Title,
			Description:     v.Description,
			Tags:            v.Tags,
			CategoryID:      v.CategoryID,
			ThumbnailKey:    v.ThumbnailS3Key,
			PrivacyStatus:   string(v.PrivacyStatus),
			IsEditable:      v.IsEditable,
			IsApproved:      v.IsApproved,
			VideoFileName:   v.VideoFileName,
			VideoFileSize:   v.VideoFileSize,
			VideoType:       v.VideoType,
			SentForApproval: v.SentForApproval,
			ApprovedByMe:    v.ApprovedByMe,
		})
	}
	c.JSON(http.StatusOK, gin.H{"videos": out})
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps service errors to HTTP statuses. Validation and failed
// edit preconditions share one opaque body so callers cannot probe foreign
// rooms' video ids.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorised"})
	default:
		h.logger.Error(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
