package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/seed"
	"github.com/faunapedia/api-go/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Catalog *services.CatalogService
	Logger  *zap.Logger
}

func NewAdminController(catalog *services.CatalogService, logger *zap.Logger) *AdminController {
	return &AdminController{Catalog: catalog, Logger: logger}
}

// Seed upserts the embedded animal and quiz catalog.
func (ac *AdminController) Seed(c *gin.Context) {
	catalog, err := seed.Default()
	if err != nil {
		handleServiceError(c, ac.Logger, err, "load catalog")
		return
	}
	result, err := ac.Catalog.Seed(c.Request.Context(), catalog)
	if err != nil {
		handleServiceError(c, ac.Logger, err, "seed database")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    result,
		Message: "Database seeded successfully",
	})
}

// BackfillLikes repairs posts stored without a like list.
func (ac *AdminController) BackfillLikes(c *gin.Context) {
	result, err := ac.Catalog.BackfillLikes(c.Request.Context())
	if err != nil {
		handleServiceError(c, ac.Logger, err, "backfill likes")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    result,
		Message: "Likes backfilled successfully",
	})
}
