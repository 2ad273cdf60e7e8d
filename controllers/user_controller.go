package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omoarwwa-coder/ayman-ai/services"
)

type UserController struct {
	App *services.App
}

func NewUserController(app *services.App) *UserController {
	return &UserController{App: app}
}

// GET /api/profile
func (uc *UserController) GetProfile(c *gin.Context) {
	user := uc.App.Snapshot().User
	if user == nil {
		respondError(c, services.ErrNotStarted)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /api/profile
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.App.UpdateProfile(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
