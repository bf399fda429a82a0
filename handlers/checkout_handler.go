package handlers

import (
	"errors"
	"net/http"

	"dispensary_admin/models"
	"dispensary_admin/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CheckoutHandler struct {
	discountService *services.DiscountService
	pricingService  *services.PricingService
}

func NewCheckoutHandler(discountService *services.DiscountService, pricingService *services.PricingService) *CheckoutHandler {
	return &CheckoutHandler{discountService: discountService, pricingService: pricingService}
}

// ValidateCode answers the checkout's "apply code" action. Rejections are
// business rules, not faults, so they come back 200 with valid=false.
func (h *CheckoutHandler) ValidateCode(c *gin.Context) {
	var body struct {
		Code       string          `json:"code" binding:"required"`
		OrderTotal decimal.Decimal `json:"order_total"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.discountService.ValidateCode(c.Request.Context(), body.Code, body.OrderTotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *CheckoutHandler) Quote(c *gin.Context) {
	var body struct {
		Items []models.CartLine `json:"items"`
		Code  string            `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.pricingService.Quote(c.Request.Context(), body.Items, body.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quote)
}

// Redeem consumes a usage slot once the order is confirmed.
func (h *CheckoutHandler) Redeem(c *gin.Context) {
	var body struct {
		DiscountID int64  `json:"discount_id" binding:"required"`
		CustomerID string `json:"customer_id"`
		OrderRef   string `json:"order_ref"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.discountService.Redeem(c.Request.Context(), body.DiscountID, body.CustomerID, body.OrderRef); err != nil {
		if errors.Is(err, services.ErrUsageExhausted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
