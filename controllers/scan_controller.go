package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omoarwwa-coder/ayman-ai/services"
)

type ScanController struct {
	App *services.App
}

func NewScanController(app *services.App) *ScanController {
	return &ScanController{App: app}
}

// POST /api/scan { "image": "data:image/jpeg;base64,..." }
func (sc *ScanController) Scan(c *gin.Context) {
	var req struct {
		Image string `json:"image" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	outcome, err := sc.App.Scan(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "state": sc.App.Snapshot()})
}
