package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	Users  *services.UserService
	Logger *zap.Logger
}

func NewUserController(users *services.UserService, logger *zap.Logger) *UserController {
	return &UserController{Users: users, Logger: logger}
}

// GetProfile godoc
// @Summary Public profile
// @Description Points, badges and post counters of a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} StandardResponse
// @Router /users/{username} [get]
func (uc *UserController) GetProfile(c *gin.Context) {
	profile, err := uc.Users.Profile(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleServiceError(c, uc.Logger, err, "load profile")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: profile})
}

// GetMe returns the caller's own record, freshly loaded so recent points
// and badges are included.
func (uc *UserController) GetMe(c *gin.Context) {
	user, err := uc.Users.GetUser(c.Request.Context(), utils.GetUser(c).ID)
	if err != nil {
		handleServiceError(c, uc.Logger, err, "load user")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: user})
}
