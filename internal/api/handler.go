package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"library-service/internal/service"
	"library-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether a backing dependency is reachable
type Pinger func(ctx context.Context) error

// Handler contains HTTP handlers
type Handler struct {
	inventory    *service.InventoryService
	reviews      *service.ReviewService
	wishlist     *service.WishlistService
	catalog      *service.CatalogService
	availability *service.AvailabilityService
	readiness    map[string]Pinger
	admins       map[int64]bool
	logger       *zap.Logger
}

// Services groups the dependencies of the HTTP layer
type Services struct {
	Inventory    *service.InventoryService
	Reviews      *service.ReviewService
	Wishlist     *service.WishlistService
	Catalog      *service.CatalogService
	Availability *service.AvailabilityService
}

// NewHandler creates a new HTTP handler. readiness checks run on /ready;
// adminIDs are the users allowed to run catalog administration.
func NewHandler(services Services, readiness map[string]Pinger, adminIDs []int64) *Handler {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Handler{
		inventory:    services.Inventory,
		reviews:      services.Reviews,
		wishlist:     services.Wishlist,
		catalog:      services.Catalog,
		availability: services.Availability,
		readiness:    readiness,
		admins:       admins,
		logger:       util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.Use(userIdentity())
	{
		v1.GET("/categories", h.listCategories)
		v1.DELETE("/categories/:slug", requireAdmin(h.admins), h.deleteCategory)

		v1.GET("/featured", h.featuredBooks)
		v1.GET("/books", h.listBooks)
		v1.GET("/books/:slug", h.getBook)
		v1.GET("/books/:slug/availability", h.getAvailability)

		actions := v1.Group("/books/:slug", requireUser())
		{
			actions.POST("/borrow", h.lifecycleAction(h.inventory.Borrow))
			actions.POST("/rent", h.lifecycleAction(h.inventory.Rent))
			actions.POST("/purchase", h.lifecycleAction(h.inventory.Purchase))
			actions.POST("/return", h.lifecycleAction(h.inventory.Return))
			actions.POST("/reviews", h.recordReview)
		}

		me := v1.Group("", requireUser())
		{
			me.GET("/wishlist", h.getWishlist)
			me.POST("/wishlist/:slug", h.addToWishlist)
			me.DELETE("/wishlist/:slug", h.removeFromWishlist)
			me.GET("/dashboard", h.dashboard)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every registered dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	ready := true
	for name, ping := range h.readiness {
		if err := ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
