package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"focusdock/internal/apperrors"
	"focusdock/pkg/logger"
)

// writeError maps any error to the JSON error envelope. Store and service
// errors carry their own status; anything else becomes a 500.
func writeError(c *gin.Context, err error) {
	var apiErr *apperrors.Error
	if !errors.As(err, &apiErr) {
		logger.Error(c.Request.Context(), "Unclassified handler error", "error", err)
		apiErr = apperrors.Internal("")
	}
	body := gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		body["details"] = apiErr.Details
	}
	c.JSON(apiErr.Status, gin.H{"error": body})
}
