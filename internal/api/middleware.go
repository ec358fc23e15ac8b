package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	userIDHeader = "X-User-ID"
	userIDKey    = "user_id"
)

// userIdentity reads the caller's ID set by the fronting auth layer.
// A missing header leaves the request anonymous; a malformed one is rejected.
func userIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(userIDHeader)
		if raw == "" {
			c.Next()
			return
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "Invalid " + userIDHeader + " header",
				"code":  "VALIDATION_ERROR",
			})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// requireUser rejects anonymous requests
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "UNAUTHENTICATED",
			})
			return
		}
		c.Next()
	}
}

// requireAdmin rejects callers outside the configured admin set
func requireAdmin(admins map[int64]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := currentUser(c)
		if id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "UNAUTHENTICATED",
			})
			return
		}
		if !admins[id] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
				"code":  "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}

// currentUser returns the caller's ID, or 0 for anonymous requests
func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}
