package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omoarwwa-coder/ayman-ai/services"
)

type SubscriptionController struct {
	App *services.App
}

func NewSubscriptionController(app *services.App) *SubscriptionController {
	return &SubscriptionController{App: app}
}

// POST /api/subscription/open
func (sc *SubscriptionController) Open(c *gin.Context) {
	if err := sc.App.OpenSubscription(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc.App.Snapshot())
}

// POST /api/subscription/upgrade { "billing": "monthly" | "yearly" }
func (sc *SubscriptionController) Upgrade(c *gin.Context) {
	var req struct {
		Billing services.Billing `json:"billing" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := sc.App.Upgrade(c.Request.Context(), req.Billing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt, "state": sc.App.Snapshot()})
}
