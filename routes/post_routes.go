package routes

import (
	"github.com/faunapedia/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupPostRoutes(public *gin.RouterGroup, postController *controllers.PostController) {
	public.GET("/posts/:id", postController.GetPost)

	// User posts routes
	users := public.Group("/users")
	{
		users.GET("/:username/posts", postController.GetUserPosts)
		users.GET("/:username/likes", postController.GetUserLikes)
	}
}

func SetupProtectedPostRoutes(protected *gin.RouterGroup, postController *controllers.PostController) {
	protected.POST("/posts", postController.CreatePost)
}
