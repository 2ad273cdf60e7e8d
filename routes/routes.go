package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/omoarwwa-coder/ayman-ai/controllers"
	"github.com/omoarwwa-coder/ayman-ai/middlewares"
	"github.com/omoarwwa-coder/ayman-ai/services"
)

type Deps struct {
	App       *services.App
	Analytics *services.AnalyticsService
	RT        *services.RealtimeHub
	Logger    zerolog.Logger
	// SessionSecret enables token auth on /api when set.
	SessionSecret string
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestID(), middlewares.Logger(d.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	stateCtl := controllers.NewStateController(d.App)
	scanCtl := controllers.NewScanController(d.App)
	recipeCtl := controllers.NewRecipeController(d.App)
	subCtl := controllers.NewSubscriptionController(d.App)
	chatCtl := controllers.NewChatController(d.App)
	userCtl := controllers.NewUserController(d.App)
	rtCtl := controllers.NewRealtimeController(d.RT, d.App)
	analyticsCtl := controllers.NewAnalyticsController(d.Analytics, d.App)

	api := r.Group("/api")
	if d.SessionSecret != "" {
		api.Use(middlewares.AuthMiddleware(d.SessionSecret))
	}
	{
		api.GET("/state", stateCtl.GetState)
		api.GET("/dashboard", stateCtl.GetDashboard)
		api.GET("/logs", stateCtl.GetLogs)
		api.GET("/analytics/summary", analyticsCtl.Summary)
		api.POST("/navigate", stateCtl.Navigate)
		api.POST("/language", stateCtl.SetLanguage)
		api.POST("/overlays/:kind/close", stateCtl.CloseOverlay)

		api.POST("/scan", scanCtl.Scan)

		api.POST("/recipes/analyze", recipeCtl.Analyze)
		api.POST("/recipes/current/log", recipeCtl.AddToLog)
		api.POST("/recipes/current/save", recipeCtl.Save)
		api.GET("/recipes", recipeCtl.List)
		api.GET("/recipes/:id", recipeCtl.Get)
		api.POST("/recipes/:id/select", recipeCtl.Select)
		api.DELETE("/recipes/:id", recipeCtl.Delete)

		api.POST("/subscription/open", subCtl.Open)
		api.POST("/subscription/upgrade", subCtl.Upgrade)

		api.GET("/profile", userCtl.GetProfile)
		api.PUT("/profile", userCtl.UpdateProfile)

		api.POST("/chat", chatCtl.Send)
		api.GET("/places", chatCtl.Places)

		api.GET("/ws", rtCtl.StateWS)
	}

	return r
}
