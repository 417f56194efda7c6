package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserEnsurer maps an identity to a user record, creating it when needed.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, identity *models.Identity) (*models.User, error)
}

// UserLookup finds the user record of an identity without writing.
type UserLookup interface {
	LookupUser(ctx context.Context, identity *models.Identity) (*models.User, error)
}

// RequireUser loads the caller's user record. It must run after Auth.
func RequireUser(users UserEnsurer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := utils.GetIdentity(c)
		if identity == nil {
			unauthenticated(c, "No identity on request")
			return
		}
		user, err := users.EnsureUser(c.Request.Context(), identity)
		if err != nil {
			logger.Error("failed to load caller", zap.String("externalId", identity.ExternalID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Failed to load user",
			})
			return
		}
		utils.SetUser(c, user)
		c.Next()
	}
}

// OptionalUser loads the caller's existing record when OptionalAuth found
// an identity. Unknown callers and lookup failures stay anonymous.
func OptionalUser(users UserLookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity := utils.GetIdentity(c); identity != nil {
			user, err := users.LookupUser(c.Request.Context(), identity)
			switch {
			case err == nil:
				utils.SetUser(c, user)
			case errors.Is(err, services.ErrUserNotFound):
			default:
				logger.Warn("failed to load viewer", zap.String("externalId", identity.ExternalID), zap.Error(err))
			}
		}
		c.Next()
	}
}
