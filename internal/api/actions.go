package api

import (
	"context"
	"net/http"

	"library-service/internal/service"

	"github.com/gin-gonic/gin"
)

type actionFunc func(ctx context.Context, req *service.ActionRequest) (*service.ActionResponse, error)

// lifecycleAction adapts one InventoryService action to a handler
func (h *Handler) lifecycleAction(action actionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := action(c.Request.Context(), &service.ActionRequest{
			BookSlug:       c.Param("slug"),
			UserID:         currentUser(c),
			IdempotencyKey: c.GetHeader("Idempotency-Key"),
		})
		if err != nil {
			h.respondError(c, "Action rejected", err)
			return
		}

		status := http.StatusCreated
		if resp.Replayed {
			status = http.StatusOK
		}
		c.JSON(status, resp)
	}
}

// recordReview handles review create-or-update
func (h *Handler) recordReview(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"code":    "VALIDATION_ERROR",
			"details": err.Error(),
		})
		return
	}
	req.BookSlug = c.Param("slug")
	req.UserID = currentUser(c)

	result, err := h.reviews.RecordReview(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, "Failed to record review", err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"review": result.Review,
		"book":   result.Book,
	})
}

// getWishlist returns the caller's wishlist
func (h *Handler) getWishlist(c *gin.Context) {
	wishlist, err := h.wishlist.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, "Failed to load wishlist", err)
		return
	}
	c.JSON(http.StatusOK, wishlist)
}

// addToWishlist is idempotent
func (h *Handler) addToWishlist(c *gin.Context) {
	added, err := h.wishlist.Add(c.Request.Context(), currentUser(c), c.Param("slug"))
	if err != nil {
		h.respondError(c, "Failed to add to wishlist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// removeFromWishlist is idempotent
func (h *Handler) removeFromWishlist(c *gin.Context) {
	removed, err := h.wishlist.Remove(c.Request.Context(), currentUser(c), c.Param("slug"))
	if err != nil {
		h.respondError(c, "Failed to remove from wishlist", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
