package models

// NutritionData is produced by the analysis gateway and never mutated.
// All quantities are grams except Calories (kcal).
type NutritionData struct {
	ProductName  string   `json:"productName"`
	Calories     float64  `json:"calories"`
	Sugar        float64  `json:"sugar"`
	Fat          float64  `json:"fat"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Salt         float64  `json:"salt"`
	Additives    []string `json:"additives"`
	IsEstimation bool     `json:"isEstimation"`
}

// HealthAnalysis is the model's personalised verdict. Score is 1-10 and
// taken as-is.
type HealthAnalysis struct {
	Score                 int      `json:"score"`
	Benefits              []string `json:"benefits"`
	ShortTermRisks        []string `json:"shortTermRisks"`
	LongTermRisks         []string `json:"longTermRisks"`
	AllergyWarnings       []string `json:"allergyWarnings"`
	PortionRecommendation string   `json:"portionRecommendation"`
	BestTimeToConsume     string   `json:"bestTimeToConsume"`
	HealthierAlternatives []string `json:"healthierAlternatives"`
}

// FoodAnalysis is the structured body of an image analysis response.
type FoodAnalysis struct {
	Nutrition NutritionData  `json:"nutrition"`
	Analysis  HealthAnalysis `json:"analysis"`
}

type AnalysisResult struct {
	Nutrition NutritionData  `json:"nutrition"`
	Analysis  HealthAnalysis `json:"analysis"`
	Timestamp string         `json:"timestamp"`
	ImageURL  string         `json:"imageUrl,omitempty"`
}
