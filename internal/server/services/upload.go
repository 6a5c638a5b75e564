// Package services implements the upload orchestration core: validating a
// create-or-edit request, resolving the approval state, preparing object
// storage work and persisting the video record.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roomreel/roomreel/internal/common"
	"github.com/roomreel/roomreel/internal/dbx"
	"github.com/roomreel/roomreel/internal/logging"
	"github.com/roomreel/roomreel/internal/server/auth"
	"github.com/roomreel/roomreel/internal/server/models"
	"github.com/roomreel/roomreel/internal/server/repositories/repomanager"
	"github.com/roomreel/roomreel/internal/server/storage"
)

// FileInfo is the client-reported metadata of a file that will be uploaded.
type FileInfo struct {
	Name string
	Size int64
	Type string
}

// CreateUploadRequest is a validated create-or-edit video request. An empty
// VideoID means create.
type CreateUploadRequest struct {
	VideoID     string
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	// PrivacyStatus is the wire-level value ("private", "public",
	// "unlisted") or empty for "leave as is / default".
	PrivacyStatus string

	ThumbnailFileChanged bool
	ThumbnailFile        *FileInfo

	VideoFileChanged bool
	VideoFile        *FileInfo
}

// CreateUploadResponse carries only the presigned bundles for assets that
// actually changed.
type CreateUploadResponse struct {
	ThumbnailPresignedURL string
	PartSignedURLList     []models.PartURL
	Key                   string
	UploadID              string
}

// UploadService sequences the approval resolver, the upload session builder
// and the video repository for one request.
type UploadService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	store  storage.Gateway
	logger logging.Logger
}

func NewUploadService(db *sql.DB, rm repomanager.RepositoryManager, store storage.Gateway, logger logging.Logger) *UploadService {
	return &UploadService{
		db:     db,
		rm:     rm,
		store:  store,
		logger: logger.With("component", "uploads"),
	}
}

func validFile(f *FileInfo) bool {
	return f.Name != "" && f.Size > 0 && strings.Contains(f.Type, "/")
}

// validate enforces the payload rules the schema layer cannot express: the
// enum domain of privacyStatus and the shape of supplied file metadata.
func validate(req *CreateUploadRequest) error {
	if req.Title == "" || req.CategoryID == "" {
		return common.ErrorValidation
	}
	if req.PrivacyStatus != "" {
		if _, ok := models.ParsePrivacyStatus(req.PrivacyStatus); !ok {
			return common.ErrorValidation
		}
	}
	if req.ThumbnailFile != nil && !validFile(req.ThumbnailFile) {
		return common.ErrorValidation
	}
	if req.VideoFile != nil && !validFile(req.VideoFile) {
		return common.ErrorValidation
	}
	return nil
}

// CreateOrUpdate drives one create-or-edit video request end to end and
// returns the presigned URL bundles for the changed assets.
//
// The edit precondition (exactly one editable, unpublished row with this id
// in the caller's room) is checked before any storage or write effect. The
// check is read-then-write and therefore racy under two concurrent edits of
// the same video; the workload is low-contention collaborative rooms and
// the losing editor merely re-issues URLs, so no version column guards it.
//
// The database write is all-or-nothing per request. Object-store side
// effects (deletions of superseded objects, multipart initiations) precede
// the write and are not covered by that guarantee.
func (s *UploadService) CreateOrUpdate(ctx context.Context, sess auth.Session, req *CreateUploadRequest) (*CreateUploadResponse, error) {
	if sess.Email == "" || sess.RoomName == "" {
		return nil, common.ErrorUnauthorized
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	roomRepo := s.rm.Rooms(s.db)
	videoRepo := s.rm.Videos(s.db)

	ownerCount, err := roomRepo.OwnerCount(ctx, sess.RoomName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("owner count error: %w", err)
	}

	editing := req.VideoID != ""
	if editing {
		n, err := videoRepo.CountEditable(ctx, sess.RoomName, req.VideoID)
		if err != nil {
			return nil, fmt.Errorf("edit precondition error: %w", err)
		}
		if n != 1 {
			// Indistinguishable from a validation failure on purpose.
			return nil, common.ErrorValidation
		}
	}

	// Old keys are needed before new ones replace them.
	var oldVideoKey, oldThumbnailKey string
	if editing && (req.VideoFileChanged || req.ThumbnailFileChanged) {
		oldVideoKey, oldThumbnailKey, err = videoRepo.AssetKeys(ctx, req.VideoID)
		if err != nil {
			return nil, fmt.Errorf("asset key lookup error: %w", err)
		}
	}

	var thumbnailPlan *models.ThumbnailUploadPlan
	if req.ThumbnailFileChanged {
		if editing && oldThumbnailKey != "" {
			s.store.DeleteAsync(oldThumbnailKey)
		}
		if req.ThumbnailFile != nil {
			thumbnailPlan, err = buildThumbnailPlan(ctx, s.store, sess.RoomName, req.ThumbnailFile)
			if err != nil {
				return nil, err
			}
		}
	}

	var videoPlan *models.VideoUploadPlan
	if req.VideoFileChanged {
		if editing && oldVideoKey != "" {
			s.store.DeleteAsync(oldVideoKey)
		}
		if req.VideoFile != nil {
			videoPlan, err = buildVideoPlan(ctx, s.store, sess.RoomName, req.VideoFile)
			if err != nil {
				return nil, err
			}
		}
	}

	decision := approvalState(ownerCount)

	if editing {
		err = s.applyUpdate(ctx, req, decision, videoPlan, thumbnailPlan)
	} else {
		err = s.applyCreate(ctx, sess.RoomName, req, decision, videoPlan, thumbnailPlan)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "upload session prepared",
		"room", sess.RoomName,
		"editing", editing,
		"video_changed", req.VideoFileChanged,
		"thumbnail_changed", req.ThumbnailFileChanged,
	)

	resp := &CreateUploadResponse{}
	if thumbnailPlan != nil {
		resp.ThumbnailPresignedURL = thumbnailPlan.URL
	}
	if videoPlan != nil && len(videoPlan.Parts) > 0 {
		resp.PartSignedURLList = videoPlan.Parts
		resp.Key = videoPlan.Key
		resp.UploadID = videoPlan.UploadID
	}
	return resp, nil
}

func privacyOrNil(wire string) *models.PrivacyStatus {
	if status, ok := models.ParsePrivacyStatus(wire); ok {
		return &status
	}
	return nil
}

func (s *UploadService) applyCreate(ctx context.Context, roomName string, req *CreateUploadRequest,
	decision approvalDecision, videoPlan *models.VideoUploadPlan, thumbnailPlan *models.ThumbnailUploadPlan) error {

	v := &models.Video{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Description:     req.Description,
		Tags:            req.Tags,
		CategoryID:      req.CategoryID,
		IsApproved:      decision.Approved,
		SentForApproval: decision.SentForApproval,
	}
	if status := privacyOrNil(req.PrivacyStatus); status != nil {
		v.PrivacyStatus = *status
	}
	if req.VideoFileChanged && videoPlan != nil {
		v.VideoS3Key = videoPlan.Key
		v.VideoFileSize = videoPlan.FileSize
		v.VideoFileName = videoPlan.FileName
		v.VideoType = videoPlan.Type
	}
	if req.ThumbnailFileChanged && thumbnailPlan != nil {
		v.ThumbnailS3Key = thumbnailPlan.Key
		v.ThumbnailSize = thumbnailPlan.Size
		v.ThumbnailType = thumbnailPlan.Type
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Videos(tx).Create(ctx, roomName, v)
	})
	if err != nil {
		return fmt.Errorf("error creating video: %w", err)
	}
	return nil
}

func (s *UploadService) applyUpdate(ctx context.Context, req *CreateUploadRequest,
	decision approvalDecision, videoPlan *models.VideoUploadPlan, thumbnailPlan *models.ThumbnailUploadPlan) error {

	patch := &models.VideoPatch{
		Title:           req.Title,
		Description:     req.Description,
		Tags:            req.Tags,
		CategoryID:      req.CategoryID,
		PrivacyStatus:   privacyOrNil(req.PrivacyStatus),
		IsApproved:      decision.Approved,
		SentForApproval: decision.SentForApproval,
	}
	// A changed asset always replaces the stored fields; without a new
	// payload they are replaced with empty values.
	if req.VideoFileChanged {
		patch.Video = &models.VideoAssetFields{}
		if videoPlan != nil {
			patch.Video = &models.VideoAssetFields{
				S3Key:    videoPlan.Key,
				FileSize: videoPlan.FileSize,
				FileName: videoPlan.FileName,
				Type:     videoPlan.Type,
			}
		}
	}
	if req.ThumbnailFileChanged {
		patch.Thumbnail = &models.ThumbnailAssetFields{}
		if thumbnailPlan != nil {
			patch.Thumbnail = &models.ThumbnailAssetFields{
				S3Key: thumbnailPlan.Key,
				Size:  thumbnailPlan.Size,
				Type:  thumbnailPlan.Type,
			}
		}
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Videos(tx)
		if err := repo.Update(ctx, req.VideoID, patch); err != nil {
			return err
		}
		// Every edit restarts the approval cycle.
		return repo.ClearApprovals(ctx, req.VideoID)
	})
	if err != nil {
		return fmt.Errorf("error updating video: %w", err)
	}
	return nil
}
