package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omoarwwa-coder/ayman-ai/models"
	"github.com/omoarwwa-coder/ayman-ai/services"
)

type StateController struct {
	App *services.App
}

func NewStateController(app *services.App) *StateController {
	return &StateController{App: app}
}

// GET /api/state
func (sc *StateController) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, sc.App.Snapshot())
}

// GET /api/dashboard
func (sc *StateController) GetDashboard(c *gin.Context) {
	summary, err := sc.App.Dashboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/logs
func (sc *StateController) GetLogs(c *gin.Context) {
	c.JSON(http.StatusOK, sc.App.Logs())
}

// POST /api/navigate { "view": "scan" }
func (sc *StateController) Navigate(c *gin.Context) {
	var req struct {
		View models.View `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sc.App.Navigate(req.View); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc.App.Snapshot())
}

// POST /api/language { "lang": "ar" }
func (sc *StateController) SetLanguage(c *gin.Context) {
	var req struct {
		Lang string `json:"lang" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := sc.App.SetLanguage(req.Lang); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc.App.Snapshot())
}

// POST /api/overlays/:kind/close
func (sc *StateController) CloseOverlay(c *gin.Context) {
	if err := sc.App.CloseOverlay(models.OverlayKind(c.Param("kind"))); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sc.App.Snapshot())
}
