package api

import (
	"net/http"

	"library-service/internal/lifecycle"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps a domain error kind to its HTTP status
func statusFor(kind lifecycle.Kind) int {
	switch kind {
	case lifecycle.KindNotFound:
		return http.StatusNotFound
	case lifecycle.KindValidation:
		return http.StatusBadRequest
	case lifecycle.KindUnavailable, lifecycle.KindNotRentable,
		lifecycle.KindNoActiveTransaction, lifecycle.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the {"error","code","details"} body for err
func (h *Handler) respondError(c *gin.Context, message string, err error) {
	kind := lifecycle.KindOf(err)
	status := statusFor(kind)

	code := string(kind)
	details := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		code = "INTERNAL_ERROR"
		details = "internal server error"
	}

	c.JSON(status, gin.H{
		"error":   message,
		"code":    code,
		"details": details,
	})
}
