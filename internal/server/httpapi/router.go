package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP router. All /api routes require a valid
// room-bound session.
func NewRouter(h *Handler, secretKey []byte) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", h.Health)

	api := r.Group("/api", sessionMiddleware(secretKey))
	{
		api.POST("/create-upload-video", h.CreateUploadVideo)
		api.GET("/get-unpublished-videos", h.GetUnpublishedVideos)
	}

	return r
}
