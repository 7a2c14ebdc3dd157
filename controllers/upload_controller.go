package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salle-backend/services"
	"salle-backend/utils"
)

// UploadRoomImage handles POST /api/upload-room-image (admin): a multipart
// "file" field saved under uploads/rooms/ and served back as a durable URL.
func UploadRoomImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "file field is required",
			gin.H{"field": "file"})
		return
	}

	url, err := services.SaveUploadedImage(file, "rooms")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
