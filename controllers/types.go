package controllers

import (
	"errors"
	"net/http"

	"github.com/faunapedia/api-go/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ListMeta struct {
	Count int `json:"count"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// handleServiceError maps service errors to a status and a message safe to
// show. Anything unexpected is logged and reported as a failure to action.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error, action string) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, services.ErrAnimalNotFound):
		respondError(c, http.StatusNotFound, "Animal not found")
	case errors.Is(err, services.ErrQuestionNotFound):
		respondError(c, http.StatusNotFound, "Question not found")
	case errors.Is(err, services.ErrInvalidComment),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidLocation),
		errors.Is(err, services.ErrInvalidUpload):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		respondError(c, http.StatusServiceUnavailable, "Uploads are not available")
	default:
		logger.Error("request failed", zap.String("action", action), zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to "+action)
	}
}
