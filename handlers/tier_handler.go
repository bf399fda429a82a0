package handlers

import (
	"net/http"
	"strconv"

	"dispensary_admin/models"
	"dispensary_admin/services"

	"github.com/gin-gonic/gin"
)

type TierHandler struct {
	tierService *services.TierService
}

func NewTierHandler(tierService *services.TierService) *TierHandler {
	return &TierHandler{tierService: tierService}
}

func (h *TierHandler) CreateTier(c *gin.Context) {
	var tier models.SubscriptionTier
	if err := c.ShouldBindJSON(&tier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tierService.CreateTier(c.Request.Context(), &tier); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tier)
}

func (h *TierHandler) UpdateTier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var tier models.SubscriptionTier
	if err := c.ShouldBindJSON(&tier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tierService.UpdateTier(c.Request.Context(), id, &tier); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tier)
}

func (h *TierHandler) DeleteTier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.tierService.DeleteTier(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TierHandler) ListTiers(c *gin.Context) {
	if c.Query("active") == "true" {
		tiers, err := h.tierService.ActiveTiers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, tiers)
		return
	}

	tiers, err := h.tierService.ListTiers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tiers)
}
