package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadController struct {
	Uploads *services.UploadService
	Logger  *zap.Logger
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

func NewUploadController(uploads *services.UploadService, logger *zap.Logger) *UploadController {
	return &UploadController{Uploads: uploads, Logger: logger}
}

// GetPresignedURL godoc
// @Summary Sign an image upload
// @Description Returns a PUT URL valid for 60 seconds and the key to send back when posting
// @Tags uploads
// @Accept json
// @Produce json
// @Param file body PresignedURLRequest true "File"
// @Success 200 {object} StandardResponse
// @Router /uploads/presign [post]
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)
	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	grant, err := uc.Uploads.PresignUpload(c.Request.Context(), user.ExternalID, req.FileName, req.ContentType)
	if err != nil {
		handleServiceError(c, uc.Logger, err, "create upload URL")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    grant,
		Message: "Presigned URL generated successfully",
	})
}
