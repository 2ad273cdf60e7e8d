package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/omoarwwa-coder/ayman-ai/models"
	"github.com/omoarwwa-coder/ayman-ai/utils"
)

const maxAnalyticsDays = 366

type logRangeReader interface {
	GetDailyLogsBetween(ctx context.Context, from, to string) ([]models.DailyLog, error)
}

type AnalyticsService struct {
	logs logRangeReader
}

func NewAnalyticsService(logs logRangeReader) *AnalyticsService {
	return &AnalyticsService{logs: logs}
}

type NutrAvg struct {
	AvgConsumed float64 `json:"avgConsumed"`
	Unit        string  `json:"unit,omitempty"`
}

type ScoreBreakdown struct {
	Good     int     `json:"good"`
	Fair     int     `json:"fair"`
	Poor     int     `json:"poor"`
	AvgScore float64 `json:"avgScore"`
}

type AnalyticsSummary struct {
	From string `json:"from"`
	To   string `json:"to"`

	Nutrients     map[string]NutrAvg `json:"nutrients"`
	TargetPercent float64            `json:"targetPercent"` // average calories as % of target
	Scores        ScoreBreakdown     `json:"scores"`

	DaysCounted        int  `json:"daysCounted"`
	IncludeMissingDays bool `json:"includeMissingDays"`
}

// Summary averages daily intake over from..to (YYYY-MM-DD, inclusive).
// With includeMissing, days without a log count as zero intake.
func (s *AnalyticsService) Summary(ctx context.Context, user models.UserProfile, from, to string, includeMissing bool) (*AnalyticsSummary, error) {
	start, err := time.Parse(utils.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
	}
	end, err := time.Parse(utils.DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range ends before it starts", ErrInvalidInput)
	}
	if end.Sub(start) > maxAnalyticsDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range longer than %d days", ErrInvalidInput, maxAnalyticsDays)
	}

	logs, err := s.logs.GetDailyLogsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var days int
	if includeMissing {
		days = int(end.Sub(start).Hours()/24) + 1
	} else {
		days = len(logs)
	}

	var sum models.NutritionData
	var scoreSum int
	out := &AnalyticsSummary{From: from, To: to, DaysCounted: days, IncludeMissingDays: includeMissing}
	for _, l := range logs {
		for _, it := range l.Items {
			n := models.EntryNutrition(it)
			sum.Calories += n.Calories
			sum.Sugar += n.Sugar
			sum.Fat += n.Fat
			sum.Protein += n.Protein
			sum.Carbs += n.Carbs
			sum.Salt += n.Salt

			score := models.EntryScore(it)
			scoreSum += score
			switch utils.ScoreBand(score) {
			case models.ScoreGood:
				out.Scores.Good++
			case models.ScoreFair:
				out.Scores.Fair++
			default:
				out.Scores.Poor++
			}
		}
	}

	out.Nutrients = map[string]NutrAvg{
		"calories": {AvgConsumed: avg(sum.Calories, days), Unit: "kcal"},
		"protein":  {AvgConsumed: avg(sum.Protein, days), Unit: "g"},
		"carbs":    {AvgConsumed: avg(sum.Carbs, days), Unit: "g"},
		"fat":      {AvgConsumed: avg(sum.Fat, days), Unit: "g"},
		"sugar":    {AvgConsumed: avg(sum.Sugar, days), Unit: "g"},
		"salt":     {AvgConsumed: avg(sum.Salt, days), Unit: "g"},
	}
	if target := TargetCalories(user); target > 0 {
		out.TargetPercent = avg(sum.Calories/target*100, days)
	}
	if n := out.Scores.Good + out.Scores.Fair + out.Scores.Poor; n > 0 {
		out.Scores.AvgScore = utils.Round1(float64(scoreSum) / float64(n))
	}
	return out, nil
}

func avg(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}
