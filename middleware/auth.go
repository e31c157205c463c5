package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"legalaid-backend/logger"
	"legalaid-backend/models"
	"legalaid-backend/service"

	"github.com/gin-gonic/gin"
)

const userKey = "currentUser"

// Authenticator resolves a bearer token to a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token for an active user
func RequireAuth(auth Authenticator, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("middleware", "RequireAuth")
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "Not authenticated")
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInactiveUser):
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   gin.H{"code": "INACTIVE_USER", "message": "Inactive user"},
				})
			case errors.Is(err, service.ErrInvalidToken):
				abortUnauthorized(c, "Could not validate credentials")
			default:
				log.Error("Authentication lookup failed", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error":   gin.H{"code": "INTERNAL_ERROR", "message": "Authentication failed"},
				})
			}
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SetCurrentUser stores a user on the context the way RequireAuth does
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(userKey, user)
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
}
