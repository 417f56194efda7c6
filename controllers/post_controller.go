package controllers

import (
	"net/http"
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PostController struct {
	Posts  *services.PostService
	Logger *zap.Logger
}

type CreatePostRequest struct {
	Key      string           `json:"key" binding:"required"`
	AnimalID string           `json:"animalId" binding:"required"`
	Caption  string           `json:"caption" binding:"max=2000"`
	Location *models.Location `json:"location"`
	TakenAt  *time.Time       `json:"takenAt"`
}

func NewPostController(posts *services.PostService, logger *zap.Logger) *PostController {
	return &PostController{Posts: posts, Logger: logger}
}

// CreatePost godoc
// @Summary Publish a photo
// @Description Creates a post from an uploaded image key. Badges are awarded afterwards.
// @Tags posts
// @Accept json
// @Produce json
// @Param post body CreatePostRequest true "Post"
// @Success 201 {object} StandardResponse
// @Router /posts [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	post, err := pc.Posts.CreatePost(c.Request.Context(), user.ID, services.CreatePostInput{
		Key:      req.Key,
		AnimalID: req.AnimalID,
		Caption:  req.Caption,
		Location: req.Location,
		TakenAt:  req.TakenAt,
	})
	if err != nil {
		handleServiceError(c, pc.Logger, err, "create post")
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    post,
		Message: "Post created successfully",
	})
}

func (pc *PostController) GetPost(c *gin.Context) {
	post, err := pc.Posts.GetPost(c.Request.Context(), c.Param("id"), utils.ViewerID(c))
	if err != nil {
		handleServiceError(c, pc.Logger, err, "load post")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: post})
}

// GetUserPosts godoc
// @Summary Posts published by a user
// @Tags posts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} StandardResponse
// @Router /users/{username}/posts [get]
func (pc *PostController) GetUserPosts(c *gin.Context) {
	posts, err := pc.Posts.ListByUser(c.Request.Context(), c.Param("username"), utils.ViewerID(c))
	if err != nil {
		handleServiceError(c, pc.Logger, err, "load posts")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    posts,
		Meta:    ListMeta{Count: len(posts)},
	})
}

// GetUserLikes godoc
// @Summary Posts liked by a user
// @Tags posts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} StandardResponse
// @Router /users/{username}/likes [get]
func (pc *PostController) GetUserLikes(c *gin.Context) {
	posts, err := pc.Posts.ListLikedBy(c.Request.Context(), c.Param("username"), utils.ViewerID(c))
	if err != nil {
		handleServiceError(c, pc.Logger, err, "load liked posts")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    posts,
		Meta:    ListMeta{Count: len(posts)},
	})
}
