package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/roomreel/roomreel/internal/common"
	"github.com/roomreel/roomreel/internal/logging"
	"github.com/roomreel/roomreel/internal/server/auth"
	"github.com/roomreel/roomreel/internal/server/models"
	"github.com/roomreel/roomreel/internal/server/services"
)

var secretKey = []byte("test-secret")

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeUploadService struct {
	resp *services.CreateUploadResponse
	err  error

	gotSess auth.Session
	gotReq  *services.CreateUploadRequest
}

func (f *fakeUploadService) CreateOrUpdate(_ context.Context, sess auth.Session, req *services.CreateUploadRequest) (*services.CreateUploadResponse, error) {
	f.gotSess = sess
	f.gotReq = req
	return f.resp, f.err
}

type fakeVideoService struct {
	videos []*models.UnpublishedVideo
	err    error
}

func (f *fakeVideoService) ListUnpublished(_ context.Context, _ auth.Session) ([]*models.UnpublishedVideo, error) {
	return f.videos, f.err
}

func newTestRouter(t *testing.T, uploads UploadService, videos VideoService) http.Handler {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewRouter(NewHandler(uploads, videos, logger), secretKey)
}

func signedToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("owner@example.com", "makers", secretKey, time.Hour)
	require.NoError(t, err)
	return token
}

const createBody = `{
	"title": "My video",
	"description": "about things",
	"tags": ["a", "b"],
	"categoryId": "22",
	"privacyStatus": "public",
	"videoFileChanged": true,
	"videoFile": {"name": "movie.mp4", "size": 1000, "type": "video/mp4"},
	"thumbnailFileChanged": true,
	"thumbnailFile": {"name": "cover.png", "size": 10, "type": "image/png"}
}`

func TestCreateUploadVideo_NoToken(t *testing.T) {
	svc := &fakeUploadService{}
	router := newTestRouter(t, svc, &fakeVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/create-upload-video", strings.NewReader(createBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"error": "Unauthorised"}`, w.Body.String())
	require.Nil(t, svc.gotReq)
}

func TestCreateUploadVideo_BadToken(t *testing.T) {
	router := newTestRouter(t, &fakeUploadService{}, &fakeVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/create-upload-video", strings.NewReader(createBody))
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUploadVideo_SessionCookie(t *testing.T) {
	svc := &fakeUploadService{resp: &services.CreateUploadResponse{}}
	router := newTestRouter(t, svc, &fakeVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/create-upload-video", strings.NewReader(createBody))
	req.AddCookie(&http.Cookie{Name: "session", Value: signedToken(t)})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "owner@example.com", svc.gotSess.Email)
	require.Equal(t, "makers", svc.gotSess.RoomName)
}

func TestCreateUploadVideo_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"title": `},
		{"missing title", `{"tags": [], "categoryId": "22"}`},
		{"missing tags", `{"title": "t", "categoryId": "22"}`},
		{"missing category", `{"title": "t", "tags": []}`},
		{"unknown privacy", `{"title": "t", "tags": [], "categoryId": "22", "privacyStatus": "friends"}`},
		{"zero file size", `{"title": "t", "tags": [], "categoryId": "22",
			"videoFile": {"name": "movie.mp4", "size": 0, "type": "video/mp4"}}`},
		{"type without slash", `{"title": "t", "tags": [], "categoryId": "22",
			"videoFile": {"name": "movie.mp4", "size": 1, "type": "mp4"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUploadService{}
			router := newTestRouter(t, svc, &fakeVideoService{})

			req := httptest.NewRequest(http.MethodPost, "/api/create-upload-video", strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer "+signedToken(t))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusBadRequest, w.Code)
			require.JSONEq(t, `{"error": "Invalid request"}`, w.Body.String())
			require.Nil(t, svc.gotReq)
		})
	}
}

func TestCreateUploadVideo_Success(t *testing.T) {
	svc := &fakeUploadService{resp: &services.CreateUploadResponse{
		ThumbnailPresignedURL: "https://s3.example/thumb",
		PartSignedURLList: []models.PartURL{
			{PartNumber: 1, SignedURL: "https://s3.example/part1"},
			{PartNumber: 2, SignedURL: "https://s3.example/part2"},
		},
		Key:      "makers_x.mp4",
		UploadID: "upload-1",
	}}
	router := newTestRouter(t, svc, &fakeVideoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/create-upload-video", strings.NewReader(createBody))
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{
		"thumbnailPresignedUrl": "https://s3.example/thumb",
		"partSignedUrlList": [
			{"signedUrl": "https://s3.example/part1", "partNumber": 1},
			{"signedUrl": "https://s3.example/part2", "partNumber": 2}
		],
		"key": "makers_x.mp4",
		"uploadId": "upload-1"
	}`, w.Body.String())

	require.NotNil(t, svc.gotReq)
	require.Equal(t, "My video", svc.gotReq.Title)
	require.Equal(t, []string{"a", "b"}, svc.gotReq.Tags)
	require.Equal(t, "public", svc.gotReq.PrivacyStatus)
	require.True(t, svc.gotReq.VideoFileChanged)
	require.Equal(t, &services.FileInfo{Name: "movie.mp4", Size: 1000, Type: "video/mp4"}, svc.gotReq.VideoFile)
	require.Equal(t, &services.FileInfo{Name: "cover.png", Size: 10, Type: "image/png"}, svc.gotReq.ThumbnailFile)
}

func TestCreateUploadVideo_OmitsUnissuedBundles(t *testing.T) {
	svc := &fakeUploadService{resp: &services.CreateUploadResponse{
		ThumbnailPresignedURL: "https://s3.example/thumb",
	}}
	router := newTestRouter(t, svc, &fakeVideoService{})

	body := `{"title": "t", "tags": [], "categoryId": "22", "thumbnailFileChanged": true,
		"thumbnailFile": {"name": "cover.png", "size": 10, "type": "image/png"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/create-upload-video", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	require.Contains(t, fields, "thumbnailPresignedUrl")
	require.NotContains(t, fields, "partSignedUrlList")
	require.NotContains(t, fields, "key")
	require.NotContains(t, fields, "uploadId")
}

func TestCreateUploadVideo_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"validation", common.ErrorValidation, http.StatusBadRequest, `{"error": "Invalid request"}`},
		{"unauthorized", common.ErrorUnauthorized, http.StatusUnauthorized, `{"error": "Unauthorised"}`},
		{"internal", common.ErrorInternal, http.StatusInternalServerError, `{"error": "Internal error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeUploadService{err: tt.err}, &fakeVideoService{})

			req := httptest.NewRequest(http.MethodPost, "/api/create-upload-video", strings.NewReader(createBody))
			req.Header.Set("Authorization", "Bearer "+signedToken(t))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			require.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestGetUnpublishedVideos(t *testing.T) {
	svc := &fakeVideoService{videos: []*models.UnpublishedVideo{
		{
			ID:              "a",
			Title:           "First",
			Tags:            []string{"x"},
			CategoryID:      "22",
			ThumbnailS3Key:  "makers_t.png",
			PrivacyStatus:   models.PrivacyPrivate,
			IsEditable:      true,
			VideoFileName:   "a.mp4",
			VideoFileSize:   10,
			VideoType:       "video/mp4",
			SentForApproval: true,
			ApprovedByMe:    true,
		},
	}}
	router := newTestRouter(t, &fakeUploadService{}, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/get-unpublished-videos", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"videos": [{
		"id": "a",
		"title": "First",
		"description": "",
		"tags": ["x"],
		"categoryId": "22",
		"thumbnailKey": "makers_t.png",
		"privacyStatus": "PRIVATE",
		"isEditable": true,
		"isApproved": false,
		"videoFileName": "a.mp4",
		"videoFileSize": 10,
		"videoType": "video/mp4",
		"sentForApproval": true,
		"approvedByMe": true
	}]}`, w.Body.String())
}

func TestGetUnpublishedVideos_Empty(t *testing.T) {
	router := newTestRouter(t, &fakeUploadService{}, &fakeVideoService{})

	req := httptest.NewRequest(http.MethodGet, "/api/get-unpublished-videos", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"videos": []}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeUploadService{}, &fakeVideoService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}
