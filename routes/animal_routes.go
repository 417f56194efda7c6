package routes

import (
	"github.com/faunapedia/api-go/controllers"
	"github.com/gin-gonic/gin"
)

func SetupAnimalRoutes(public *gin.RouterGroup, animalController *controllers.AnimalController) {
	animals := public.Group("/animals")
	{
		animals.GET("", animalController.ListAnimals)
		animals.GET("/search", animalController.SearchAnimals)
		animals.GET("/:id", animalController.GetAnimal)
		animals.GET("/:id/posts", animalController.GetAnimalPosts)
	}
}
