package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/omoarwwa-coder/ayman-ai/services"
)

type RecipeController struct {
	App *services.App
}

func NewRecipeController(app *services.App) *RecipeController {
	return &RecipeController{App: app}
}

// POST /api/recipes/analyze { "name": "...", "ingredients": "...", "servings": 2 }
func (rc *RecipeController) Analyze(c *gin.Context) {
	var req services.RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := rc.App.AnalyzeRecipe(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome, "state": rc.App.Snapshot()})
}

// POST /api/recipes/current/log
func (rc *RecipeController) AddToLog(c *gin.Context) {
	if err := rc.App.AddRecipeToLog(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rc.App.Snapshot())
}

// POST /api/recipes/current/save
func (rc *RecipeController) Save(c *gin.Context) {
	saved, err := rc.App.SaveRecipeToBook(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// GET /api/recipes
func (rc *RecipeController) List(c *gin.Context) {
	c.JSON(http.StatusOK, rc.App.Snapshot().SavedRecipes)
}

// GET /api/recipes/:id
func (rc *RecipeController) Get(c *gin.Context) {
	recipe, err := rc.App.SavedRecipe(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// POST /api/recipes/:id/select opens the saved recipe read-only.
func (rc *RecipeController) Select(c *gin.Context) {
	if err := rc.App.SelectSavedRecipe(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rc.App.Snapshot())
}

// DELETE /api/recipes/:id
func (rc *RecipeController) Delete(c *gin.Context) {
	if err := rc.App.DeleteSavedRecipe(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
