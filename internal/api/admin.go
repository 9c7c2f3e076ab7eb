package api

import (
	"net/http"

	"storefront-service/internal/models"

	"github.com/gin-gonic/gin"
)

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
	TOTP     string `json:"totp" binding:"required,len=6,numeric"`
}

// adminLogin checks the shared secret plus one-time code and returns a fresh
// bearer token, superseding any previous session
func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body",
			"field":  "body",
			"reason": "password and a 6-digit totp are required",
		})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Password, req.TOTP)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// requireAdmin gates catalog mutation behind the current session token
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if err := h.auth.Authorize(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// adminGetProducts returns the full catalog including override data
func (h *Handler) adminGetProducts(c *gin.Context) {
	products, err := h.catalog.AdminProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// adminReplaceProducts replaces the whole catalog with the posted list
func (h *Handler) adminReplaceProducts(c *gin.Context) {
	var products []models.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request body",
			"field":  "body",
			"reason": "malformed JSON",
		})
		return
	}

	if err := h.catalog.ReplaceProducts(c.Request.Context(), products); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
