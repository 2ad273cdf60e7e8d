package models

type View string

const (
	ViewDashboard   View = "dashboard"
	ViewScan        View = "scan"
	ViewProfile     View = "profile"
	ViewRecipeEntry View = "recipe-entry"
	ViewRecipeBook  View = "recipe-book"
	ViewMedicalChat View = "medical-chat"
)

func (v View) Valid() bool {
	switch v {
	case ViewDashboard, ViewScan, ViewProfile, ViewRecipeEntry, ViewRecipeBook, ViewMedicalChat:
		return true
	}
	return false
}

type OverlayKind string

const (
	OverlayAnalysis     OverlayKind = "analysis"
	OverlayRecipe       OverlayKind = "recipe"
	OverlaySubscription OverlayKind = "subscription"
)

// RecipeOverlay is the recipe result modal. ReadOnly is set when it was
// opened from the recipe book; Saved hides the save action.
type RecipeOverlay struct {
	Result   RecipeAnalysisResult `json:"result"`
	SavedID  string               `json:"savedId,omitempty"`
	Saved    bool                 `json:"saved"`
	ReadOnly bool                 `json:"readOnly"`
}

type ChatRole string

const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "ai"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

type ChatState struct {
	Messages []ChatMessage `json:"messages"`
	Loading  bool          `json:"loading"`
}

// AppState is the full UI state the front end renders from.
type AppState struct {
	View             View            `json:"view"`
	Lang             string          `json:"lang"`
	RTL              bool            `json:"rtl"`
	User             *UserProfile    `json:"user"`
	Logs             []DailyLog      `json:"logs"`
	SavedRecipes     []SavedRecipe   `json:"savedRecipes"`
	IsAnalyzing      bool            `json:"isAnalyzing"`
	CurrentAnalysis  *AnalysisResult `json:"currentAnalysis,omitempty"`
	RecipeOverlay    *RecipeOverlay  `json:"recipeOverlay,omitempty"`
	ShowSubscription bool            `json:"showSubscription"`
	Chat             ChatState       `json:"chat"`
	Notice           string          `json:"notice,omitempty"`
}

// OutcomeStatus reports how an analysis request ended.
type OutcomeStatus string

const (
	OutcomeCompleted OutcomeStatus = "completed"
	OutcomeUpsell    OutcomeStatus = "upsell"
	OutcomeFailed    OutcomeStatus = "failed"
)

type Outcome struct {
	Status OutcomeStatus `json:"status"`
	Notice string        `json:"notice,omitempty"`
}
