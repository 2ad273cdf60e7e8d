package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omoarwwa-coder/ayman-ai/services"
	"github.com/omoarwwa-coder/ayman-ai/utils"
)

type AnalyticsController struct {
	Svc *services.AnalyticsService
	App *services.App
}

func NewAnalyticsController(svc *services.AnalyticsService, app *services.App) *AnalyticsController {
	return &AnalyticsController{Svc: svc, App: app}
}

// GET /api/analytics/summary?from=YYYY-MM-DD&to=YYYY-MM-DD&include_missing=true
// Defaults to the last 7 days including today.
func (ac *AnalyticsController) Summary(c *gin.Context) {
	user := ac.App.Snapshot().User
	if user == nil {
		respondError(c, services.ErrNotStarted)
		return
	}

	now := time.Now()
	to := c.DefaultQuery("to", utils.DayKey(now))
	from := c.DefaultQuery("from", utils.DayKey(now.AddDate(0, 0, -6)))
	includeMissing, _ := strconv.ParseBool(c.DefaultQuery("include_missing", "true"))

	out, err := ac.Svc.Summary(c.Request.Context(), *user, from, to, includeMissing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
