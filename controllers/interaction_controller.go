package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InteractionController struct {
	Social *services.SocialService
	Logger *zap.Logger
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewInteractionController(social *services.SocialService, logger *zap.Logger) *InteractionController {
	return &InteractionController{Social: social, Logger: logger}
}

// LikePost godoc
// @Summary Like or unlike a post
// @Description Toggles like status for a post
// @Tags interactions
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{id}/like [post]
func (ic *InteractionController) LikePost(c *gin.Context) {
	user := utils.GetUser(c)

	liked, err := ic.Social.ToggleLike(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		handleServiceError(c, ic.Logger, err, "toggle like")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "liked": liked})
}

// AddComment godoc
// @Summary Comment on a post
// @Description Content is trimmed and limited to 500 characters
// @Tags interactions
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param comment body CommentRequest true "Comment"
// @Success 201 {object} StandardResponse
// @Router /posts/{id}/comments [post]
func (ic *InteractionController) AddComment(c *gin.Context) {
	user := utils.GetUser(c)
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := ic.Social.AddComment(c.Request.Context(), c.Param("id"), user.ID, req.Content)
	if err != nil {
		handleServiceError(c, ic.Logger, err, "add comment")
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    comment,
		Message: "Comment added successfully",
	})
}

// GetComments godoc
// @Summary Comments of a post
// @Description Oldest first
// @Tags interactions
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} StandardResponse
// @Router /posts/{id}/comments [get]
func (ic *InteractionController) GetComments(c *gin.Context) {
	comments, err := ic.Social.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, ic.Logger, err, "load comments")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    comments,
		Meta:    ListMeta{Count: len(comments)},
	})
}
