package utils

import (
	"github.com/faunapedia/api-go/models"
	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	IdentityContextKey contextKey = "identity"
	UserContextKey     contextKey = "user"
)

func SetIdentity(c *gin.Context, identity *models.Identity) {
	c.Set(string(IdentityContextKey), identity)
}

// GetIdentity returns the verified token identity, or nil for anonymous
// requests.
func GetIdentity(c *gin.Context) *models.Identity {
	v, exists := c.Get(string(IdentityContextKey))
	if !exists {
		return nil
	}
	if identity, ok := v.(*models.Identity); ok {
		return identity
	}
	return nil
}

func SetUser(c *gin.Context, user *models.User) {
	c.Set(string(UserContextKey), user)
}

// GetUser returns the caller's user record, or nil when none was loaded.
func GetUser(c *gin.Context) *models.User {
	v, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if user, ok := v.(*models.User); ok {
		return user
	}
	return nil
}

// ViewerID is the caller's user id, empty for anonymous requests.
func ViewerID(c *gin.Context) string {
	if user := GetUser(c); user != nil {
		return user.ID
	}
	return ""
}
