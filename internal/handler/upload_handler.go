package handler

import (
	"errors"
	"net/http"

	"github.com/immedha/firstlight/internal/storage"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	images *storage.ImageStore
}

func NewUploadHandler(images *storage.ImageStore) *UploadHandler {
	return &UploadHandler{images: images}
}

// RegisterRoutes registers upload routes on the authenticated group
func (h *UploadHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/uploads/images", h.UploadImage)
}

// UploadImage stores one product image and returns its URL
// POST /api/uploads/images (multipart field "image")
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}

	url, err := h.images.Save(fileHeader)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) || errors.Is(err, storage.ErrUnsupportedImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
