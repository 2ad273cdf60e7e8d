package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omoarwwa-coder/ayman-ai/models"
)

func TestRefreshQuota(t *testing.T) {
	u, changed := refreshQuota(*freeUser(0, "2025-02-28"), today, 3)
	assert.True(t, changed)
	assert.Equal(t, 3, u.ScansRemainingToday)
	assert.Equal(t, today, u.LastScanDate)

	u, changed = refreshQuota(*freeUser(1, today), today, 3)
	assert.False(t, changed)
	assert.Equal(t, 1, u.ScansRemainingToday)

	p := *freeUser(0, "2025-01-01")
	p.SubscriptionPlan = models.PlanPremium
	_, changed = refreshQuota(p, today, 3)
	assert.False(t, changed)
}

func TestCanAnalyzeAndConsume(t *testing.T) {
	free := *freeUser(1, today)
	assert.True(t, canAnalyze(free))

	free = consumeScan(free, today)
	assert.Equal(t, 0, free.ScansRemainingToday)
	assert.False(t, canAnalyze(free))

	premium := free
	premium.SubscriptionPlan = models.PlanPremium
	assert.True(t, canAnalyze(premium))
	assert.Equal(t, 0, consumeScan(premium, today).ScansRemainingToday)
}
