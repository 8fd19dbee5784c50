package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/brf-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error sends a JSON error response.
// AppErrors are rendered with their own status and code; anything else is
// logged and answered with 500.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			zap.L().Warn("request failed",
				zap.String("path", c.FullPath()),
				zap.String("code", appErr.Code),
				zap.Error(appErr.Err),
			)
		}
		c.JSON(appErr.Status, ErrorResponse{Error: appErr.Code})
		return
	}

	zap.L().Error("unhandled error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_server_error"})
}

// Abort is Error followed by aborting the handler chain, for middleware.
func Abort(c *gin.Context, status int, code string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code})
}
