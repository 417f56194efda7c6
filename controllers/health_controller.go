package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	Store  Pinger
	Driver string
	Logger *zap.Logger
}

func NewHealthController(store Pinger, driver string, logger *zap.Logger) *HealthController {
	return &HealthController{Store: store, Driver: driver, Logger: logger}
}

func (hc *HealthController) Live(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (hc *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := hc.Store.Ping(ctx); err != nil {
		hc.Logger.Warn("store ping failed", zap.String("driver", hc.Driver), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"status":  "unavailable",
			"store":   hc.Driver,
			"time":    time.Now().Unix(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  "ok",
		"store":   hc.Driver,
		"time":    time.Now().Unix(),
	})
}
