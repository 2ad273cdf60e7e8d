package models

import "time"

type Substitution struct {
	Original string `json:"original"`
	Better   string `json:"better"`
	Reason   string `json:"reason"`
}

// RecipeAnalysisResult carries both total and per-serving nutrition. The
// per-serving split is computed by the model and trusted here.
type RecipeAnalysisResult struct {
	RecipeName          string         `json:"recipeName"`
	Servings            int            `json:"servings"`
	TotalNutrition      NutritionData  `json:"totalNutrition"`
	PerServingNutrition NutritionData  `json:"perServingNutrition"`
	HealthInsights      []string       `json:"healthInsights"`
	Substitutions       []Substitution `json:"substitutions"`
	PreparationTips     []string       `json:"preparationTips"`
	Score               int            `json:"score"`
	Timestamp           string         `json:"timestamp"`
}

type SavedRecipe struct {
	ID string `json:"id"`
	RecipeAnalysisResult
}

type SavedRecipeRecord struct {
	ID        string               `gorm:"primaryKey;size:36"`
	Recipe    RecipeAnalysisResult `gorm:"serializer:json;not null"`
	CreatedAt time.Time            `gorm:"index"`
}

func (SavedRecipeRecord) TableName() string { return "saved_recipes" }

func (r SavedRecipeRecord) ToSaved() SavedRecipe {
	return SavedRecipe{ID: r.ID, RecipeAnalysisResult: r.Recipe}
}
