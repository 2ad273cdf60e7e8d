package models

type ScoreBand string

const (
	ScoreGood ScoreBand = "good" // 8-10
	ScoreFair ScoreBand = "fair" // 5-7
	ScorePoor ScoreBand = "poor"
)

type DayCalories struct {
	Date       string  `json:"date"`
	Calories   float64 `json:"calories"`
	OverTarget bool    `json:"overTarget"`
}

type RecentItem struct {
	Type      EntryType `json:"type"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Score     int       `json:"score"`
	Band      ScoreBand `json:"band"`
	Label     string    `json:"label"`
	Timestamp string    `json:"timestamp"`
}

type DashboardSummary struct {
	Date           string        `json:"date"`
	TodayCalories  float64       `json:"todayCalories"`
	TargetCalories float64       `json:"targetCalories"`
	Remaining      float64       `json:"remaining"`
	ProgressPct    float64       `json:"progressPct"`
	Week           []DayCalories `json:"week"`
	Recent         []RecentItem  `json:"recent"`
	ScansLeft      int           `json:"scansLeft"` // -1 on the premium plan
}
