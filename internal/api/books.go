package api

import (
	"net/http"
	"strconv"

	"library-service/internal/store"

	"github.com/gin-gonic/gin"
)

// listCategories handles the category index
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to list categories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// deleteCategory removes a category and its books
func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		h.respondError(c, "Failed to delete category", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listBooks handles the filtered, sorted, paginated catalog
func (h *Handler) listBooks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.catalog.ListBooks(c.Request.Context(), store.BookFilter{
		CategorySlug: c.Query("category"),
		Search:       searchTerm(c),
		Availability: c.Query("availability"),
		Sort:         c.Query("sort"),
		Page:         page,
	})
	if err != nil {
		h.respondError(c, "Failed to list books", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// featuredBooks handles the home page selection
func (h *Handler) featuredBooks(c *gin.Context) {
	books, err := h.catalog.Featured(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to load featured books", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// getBook handles book detail
func (h *Handler) getBook(c *gin.Context) {
	detail, err := h.catalog.BookDetail(c.Request.Context(), c.Param("slug"), currentUser(c))
	if err != nil {
		h.respondError(c, "Book not found", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// getAvailability handles the cached stock lookup
func (h *Handler) getAvailability(c *gin.Context) {
	availability, err := h.availability.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, "Failed to load availability", err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// dashboard handles the user's activity summary
func (h *Handler) dashboard(c *gin.Context) {
	dashboard, err := h.catalog.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, "Failed to load dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// searchTerm reads the search box; q is accepted as a short alias
func searchTerm(c *gin.Context) string {
	if term := c.Query("search"); term != "" {
		return term
	}
	return c.Query("q")
}
