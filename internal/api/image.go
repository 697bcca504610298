package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxImageSize bounds restaurant image uploads.
const maxImageSize = 5 << 20

// UploadImage stores the multipart "image" file and points the restaurant at
// it.
func (h *DashboardHandler) UploadImage(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if _, err := h.restaurants.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+1024)
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if header.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image must be at most 5MB"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer file.Close()

	url, err := h.images.UploadRestaurantImage(c.Request.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, err)
		return
	}
	r, err := h.restaurants.SetImage(c.Request.Context(), id, url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "imageUrl": url, "restaurant": r})
}
