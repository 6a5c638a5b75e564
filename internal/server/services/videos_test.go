package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/roomreel/roomreel/internal/common"
	"github.com/roomreel/roomreel/internal/server/auth"
	"github.com/roomreel/roomreel/internal/server/models"
)

func (f *fakeVideosRepo) ListUnpublished(ctx context.Context, roomName, viewerEmail string) ([]*models.UnpublishedVideo, error) {
	f.listRoom = roomName
	f.listViewer = viewerEmail
	return f.list, f.listErr
}

func newVideoService(t *testing.T) (*VideoService, *fakeVideosRepo) {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	v := &fakeVideosRepo{}
	rm := &fakeRepoManager{db: db, r: &fakeRoomsRepo{}, v: v}
	return NewVideoService(db, rm), v
}

func TestListUnpublished_ScopesToCallersRoomAndEmail(t *testing.T) {
	svc, v := newVideoService(t)
	v.list = []*models.UnpublishedVideo{{ID: "a", Title: "first"}}

	got, err := svc.ListUnpublished(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "makers", v.listRoom)
	require.Equal(t, "owner@example.com", v.listViewer)
}

func TestListUnpublished_Unauthorized(t *testing.T) {
	svc, _ := newVideoService(t)

	_, err := svc.ListUnpublished(context.Background(), auth.Session{})
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestListUnpublished_RepoError(t *testing.T) {
	svc, v := newVideoService(t)
	v.listErr = errors.New("db gone")

	_, err := svc.ListUnpublished(context.Background(), sess)
	require.Error(t, err)
}
