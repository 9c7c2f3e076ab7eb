package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog  *service.CatalogService
	checkout *service.CheckoutService
	auth     *service.AuthService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	checkout *service.CheckoutService,
	auth *service.AuthService,
) *Handler {
	return &Handler{
		catalog:  catalog,
		checkout: checkout,
		auth:     auth,
	}
}

// SetupRoutes sets up HTTP routes. requestsPerMinute is the per-client rate
// budget; zero disables limiting.
func (h *Handler) SetupRoutes(router *gin.Engine, requestsPerMinute int) {
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
	}))
	if requestsPerMinute > 0 {
		router.Use(rateLimitMiddleware(requestsPerMinute))
	}
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/products", h.getProducts)
	router.POST("/create-checkout-session", h.createCheckoutSession)

	admin := router.Group("/admin")
	{
		admin.POST("/login", h.adminLogin)

		authed := admin.Group("")
		authed.Use(h.requireAdmin())
		{
			authed.GET("/products", h.adminGetProducts)
			authed.PATCH("/products", h.adminReplaceProducts)
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

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getProducts serves the public catalog, optionally converted for display
func (h *Handler) getProducts(c *gin.Context) {
	products, err := h.catalog.Products(c.Request.Context(), c.Query("currency"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// createCheckoutSession runs the checkout pipeline
func (h *Handler) createCheckoutSession(c *gin.Context) {
	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body",
			"field":  "body",
			"reason": "malformed JSON",
		})
		return
	}

	resp, err := h.checkout.CreateSession(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondError maps the error taxonomy onto status codes in one place
func (h *Handler) respondError(c *gin.Context, err error) {
	var shapeErr *service.ShapeError
	if errors.As(err, &shapeErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  shapeErr.Error(),
			"field":  shapeErr.Field,
			"reason": shapeErr.Reason,
		})
		return
	}

	var bizErr *service.BusinessRuleError
	if errors.As(err, &bizErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": bizErr.Error()})
		return
	}

	if errors.Is(err, service.ErrUnknownCurrency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid currency"})
		return
	}

	if errors.Is(err, service.ErrBadCredentials) || errors.Is(err, service.ErrBadToken) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// provider and internal failures stay generic for the client; the cause
	// was already logged where it happened
	var provErr *service.ProviderError
	if errors.As(err, &provErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment provider request failed"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
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
