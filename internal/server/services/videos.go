package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roomreel/roomreel/internal/common"
	"github.com/roomreel/roomreel/internal/server/auth"
	"github.com/roomreel/roomreel/internal/server/models"
	"github.com/roomreel/roomreel/internal/server/repositories/repomanager"
)

// VideoService serves read paths over the same backing store.
type VideoService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewVideoService(db *sql.DB, rm repomanager.RepositoryManager) *VideoService {
	return &VideoService{db: db, rm: rm}
}

// ListUnpublished returns the caller's room's unpublished videos, with the
// approval indicator scoped to the caller.
func (s *VideoService) ListUnpublished(ctx context.Context, sess auth.Session) ([]*models.UnpublishedVideo, error) {
	if sess.Email == "" || sess.RoomName == "" {
		return nil, common.ErrorUnauthorized
	}

	videos, err := s.rm.Videos(s.db).ListUnpublished(ctx, sess.RoomName, sess.Email)
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	return videos, nil
}
