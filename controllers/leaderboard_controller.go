package controllers

import (
	"net/http"

	"github.com/faunapedia/api-go/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LeaderboardController struct {
	Game   *services.GameService
	Logger *zap.Logger
}

type LeaderboardQuery struct {
	Limit int `form:"limit,default=10" binding:"min=1,max=50"`
}

func NewLeaderboardController(game *services.GameService, logger *zap.Logger) *LeaderboardController {
	return &LeaderboardController{Game: game, Logger: logger}
}

// GetLeaderboard godoc
// @Summary Top players by points
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of players, 1 to 50"
// @Success 200 {object} StandardResponse
// @Router /leaderboard [get]
func (lc *LeaderboardController) GetLeaderboard(c *gin.Context) {
	var query LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := lc.Game.Leaderboard(c.Request.Context(), query.Limit)
	if err != nil {
		handleServiceError(c, lc.Logger, err, "load leaderboard")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    entries,
		Meta:    ListMeta{Count: len(entries)},
	})
}
