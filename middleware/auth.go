package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var errMissingToken = errors.New("no authorization token provided")

// IdentityClaims are the session token claims issued by the identity
// provider. The subject is the provider's user id.
type IdentityClaims struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Picture  string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier accepts HS256 tokens signed with secret. A non-empty
// issuer must match the iss claim.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenVerifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

func (v *TokenVerifier) Verify(tokenString string) (*models.Identity, error) {
	claims := &IdentityClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return &models.Identity{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		Username:   claims.Username,
		Picture:    claims.Picture,
	}, nil
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errMissingToken
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("format should be: Bearer <token>")
	}
	return parts[1], nil
}

// Auth rejects requests without a valid identity token.
func Auth(verifier *TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, err := bearerToken(c)
		if err != nil {
			unauthenticated(c, err.Error())
			return
		}
		identity, err := verifier.Verify(token)
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			unauthenticated(c, "Invalid token")
			return
		}

		utils.SetIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth records the identity when a valid token is sent and lets
// anonymous requests through.
func OptionalAuth(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := bearerToken(c); err == nil {
			if identity, err := verifier.Verify(token); err == nil {
				utils.SetIdentity(c, identity)
			}
		}
		c.Next()
	}
}

func unauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Authentication required",
		"message": message,
	})
}
