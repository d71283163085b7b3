package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"focusdock/internal/apperrors"
	"focusdock/internal/auth"
	"focusdock/pkg/logger"
)

const ownerIDContextKey = "ownerID"

// Auth validates the Bearer session token and stores the resolved owner id on
// the request context. Absent or invalid token aborts with 401.
func Auth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if header == "" || !strings.HasPrefix(header, prefix) {
			logger.Debug(ctx, "Missing or invalid Authorization header")
			abortUnauthorized(c)
			return
		}
		tokenStr := strings.TrimSpace(header[len(prefix):])
		if tokenStr == "" {
			abortUnauthorized(c)
			return
		}
		ownerID, apiErr := authService.ParseToken(tokenStr)
		if apiErr != nil {
			logger.Debug(ctx, "Token validation failed", "error", apiErr.Message)
			abortUnauthorized(c)
			return
		}
		c.Set(ownerIDContextKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner id set by Auth, or "".
func OwnerID(c *gin.Context) string {
	value, ok := c.Get(ownerIDContextKey)
	if !ok {
		return ""
	}
	id, _ := value.(string)
	return id
}

func abortUnauthorized(c *gin.Context) {
	apiErr := apperrors.Unauthorized("")
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error": gin.H{"code": apiErr.Code, "message": apiErr.Message},
	})
}
