package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MapController struct {
	Map    *services.MapService
	Logger *zap.Logger
}

func NewMapController(m *services.MapService, logger *zap.Logger) *MapController {
	return &MapController{Map: m, Logger: logger}
}

// GetMapPoints godoc
// @Summary Map markers
// @Description Habitat markers of every animal followed by geotagged posts
// @Tags map
// @Produce json
// @Success 200 {object} StandardResponse
// @Router /map/points [get]
func (mc *MapController) GetMapPoints(c *gin.Context) {
	points, err := mc.Map.Points(c.Request.Context())
	if err != nil {
		handleServiceError(c, mc.Logger, err, "load map points")
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    points,
		Meta:    ListMeta{Count: len(points)},
	})
}
