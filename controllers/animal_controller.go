package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnimalController struct {
	Animals *services.AnimalService
	Posts   *services.PostService
	Logger  *zap.Logger
}

type AnimalQuery struct {
	Category string `form:"category"`
}

type AnimalSearchQuery struct {
	Q string `form:"q"`
}

func NewAnimalController(animals *services.AnimalService, posts *services.PostService, logger *zap.Logger) *AnimalController {
	return &AnimalController{Animals: animals, Posts: posts, Logger: logger}
}

// ListAnimals godoc
// @Summary List animals
// @Description Returns the catalog sorted by name, optionally filtered by category
// @Tags animals
// @Produce json
// @Param category query string false "Mammal, Bird, Reptile, Amphibian, Fish or Invertebrate"
// @Success 200 {object} StandardResponse
// @Router /animals [get]
func (ac *AnimalController) ListAnimals(c *gin.Context) {
	var query AnimalQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	animals, err := ac.Animals.List(c.Request.Context(), models.Category(query.Category))
	if err != nil {
		handleServiceError(c, ac.Logger, err, "list animals")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    animals,
		Meta:    ListMeta{Count: len(animals)},
	})
}

// SearchAnimals godoc
// @Summary Search animals by name
// @Tags animals
// @Produce json
// @Param q query string true "Part of the name"
// @Success 200 {object} StandardResponse
// @Router /animals/search [get]
func (ac *AnimalController) SearchAnimals(c *gin.Context) {
	var query AnimalSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	animals, err := ac.Animals.Search(c.Request.Context(), query.Q)
	if err != nil {
		handleServiceError(c, ac.Logger, err, "search animals")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: animals})
}

func (ac *AnimalController) GetAnimal(c *gin.Context) {
	animal, err := ac.Animals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, ac.Logger, err, "load animal")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: animal})
}

// GetAnimalPosts godoc
// @Summary Posts about one animal
// @Description Newest first, with like and comment counts for the caller
// @Tags animals
// @Produce json
// @Param id path string true "Animal ID"
// @Success 200 {object} StandardResponse
// @Router /animals/{id}/posts [get]
func (ac *AnimalController) GetAnimalPosts(c *gin.Context) {
	posts, err := ac.Posts.ListByAnimal(c.Request.Context(), c.Param("id"), utils.ViewerID(c))
	if err != nil {
		handleServiceError(c, ac.Logger, err, "load posts")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    posts,
		Meta:    ListMeta{Count: len(posts)},
	})
}
