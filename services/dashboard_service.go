package services

import (
	"math"

	"github.com/omoarwwa-coder/ayman-ai/models"
	"github.com/omoarwwa-coder/ayman-ai/utils"
)

const chartDays = 7

// TargetCalories is the daily intake goal derived from the profile with a
// Mifflin-St Jeor style estimate.
func TargetCalories(user models.UserProfile) float64 {
	sex := -161.0
	if user.Gender == models.GenderMale {
		sex = 5
	}
	return math.Round(10*user.Weight + 6.25*user.Height - 5*float64(user.Age) + sex*1.5)
}

// BuildDashboard summarises today's intake, the last week of logs and
// today's entries newest first.
func BuildDashboard(user models.UserProfile, logs []models.DailyLog, today string) models.DashboardSummary {
	target := TargetCalories(user)

	var todayLog models.DailyLog
	for _, l := range logs {
		if l.Date == today {
			todayLog = l
			break
		}
	}

	pct := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target * 100
		if p > 100 {
			return 100
		}
		return p
	}

	week := logs
	if len(week) > chartDays {
		week = week[len(week)-chartDays:]
	}
	series := make([]models.DayCalories, 0, len(week))
	for _, l := range week {
		series = append(series, models.DayCalories{
			Date:       l.Date,
			Calories:   l.TotalCalories,
			OverTarget: l.TotalCalories > target,
		})
	}

	recent := make([]models.RecentItem, 0, len(todayLog.Items))
	for i := len(todayLog.Items) - 1; i >= 0; i-- {
		recent = append(recent, recentItem(todayLog.Items[i]))
	}

	scansLeft := -1
	if !user.IsPremium() {
		scansLeft = user.ScansRemainingToday
	}

	return models.DashboardSummary{
		Date:           today,
		TodayCalories:  todayLog.TotalCalories,
		TargetCalories: target,
		Remaining:      math.Max(0, target-math.Round(todayLog.TotalCalories)),
		ProgressPct:    pct(todayLog.TotalCalories, target),
		Week:           series,
		Recent:         recent,
		ScansLeft:      scansLeft,
	}
}

func recentItem(e models.LogEntry) models.RecentItem {
	return models.MatchEntry(e,
		func(s models.ScanEntry) models.RecentItem {
			return models.RecentItem{
				Type:      models.EntryScan,
				Name:      s.Result.Nutrition.ProductName,
				Calories:  s.Result.Nutrition.Calories,
				Score:     s.Result.Analysis.Score,
				Band:      utils.ScoreBand(s.Result.Analysis.Score),
				Label:     utils.ScoreLabel(s.Result.Analysis.Score),
				Timestamp: s.Result.Timestamp,
			}
		},
		func(r models.RecipeEntry) models.RecentItem {
			return models.RecentItem{
				Type:      models.EntryRecipe,
				Name:      r.Recipe.RecipeName,
				Calories:  r.Recipe.PerServingNutrition.Calories,
				Score:     r.Recipe.Score,
				Band:      utils.ScoreBand(r.Recipe.Score),
				Label:     utils.ScoreLabel(r.Recipe.Score),
				Timestamp: r.Recipe.Timestamp,
			}
		},
	)
}
