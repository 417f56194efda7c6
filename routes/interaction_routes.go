package routes

import (
	"github.com/faunapedia/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupInteractionRoutes(public *gin.RouterGroup, interactionController *controllers.InteractionController) {
	public.GET("/posts/:id/comments", interactionController.GetComments)
}

func SetupProtectedInteractionRoutes(protected *gin.RouterGroup, interactionController *controllers.InteractionController) {
	posts := protected.Group("/posts")
	{
		posts.POST("/:id/like", interactionController.LikePost)
		posts.POST("/:id/comments", interactionController.AddComment)
	}
}
