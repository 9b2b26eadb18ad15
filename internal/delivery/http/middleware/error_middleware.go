package middleware

import (
	"errors"
	"net/http"

	"netch-backend/internal/delivery/http/response"
	"netch-backend/pkg/apperror"
	"netch-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "path", c.FullPath(), "status", appErr.Code, "error", err)
				if appErr.Code == http.StatusInternalServerError {
					// Never expose internal error details to clients
					response.Error(c, appErr.Code, "An unexpected error occurred. Please try again later.", nil)
					return
				}
			}
			response.Fail(c, appErr.Code, appErr.Message, appErr.Errors, nil)
			return
		}

		// SECURITY: Never expose internal error details to clients.
		// Log the actual error server-side for debugging, but send a
		// generic message to the user to prevent information disclosure.
		logger.Log.Error("Internal Server Error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
