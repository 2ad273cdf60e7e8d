package utils

import (
	"fmt"

	"github.com/omoarwwa-coder/ayman-ai/models"
)

func ScoreBand(score int) models.ScoreBand {
	switch {
	case score >= 8:
		return models.ScoreGood
	case score >= 5:
		return models.ScoreFair
	default:
		return models.ScorePoor
	}
}

// ScoreLabel renders a score the way the result overlays show it, e.g. "8/10".
func ScoreLabel(score int) string {
	return fmt.Sprintf("%d/10", score)
}
