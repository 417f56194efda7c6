package routes

import (
	"github.com/faunapedia/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(public *gin.RouterGroup, userController *controllers.UserController) {
	public.GET("/users/:username", userController.GetProfile)
}
