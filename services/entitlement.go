package services

import "github.com/omoarwwa-coder/ayman-ai/models"

// refreshQuota restores the daily free allowance once the calendar day has
// changed. The second result reports whether the profile must be persisted.
func refreshQuota(user models.UserProfile, today string, freeDailyScans int) (models.UserProfile, bool) {
	if user.IsPremium() || user.LastScanDate == today {
		return user, false
	}
	user.ScansRemainingToday = freeDailyScans
	user.LastScanDate = today
	return user, true
}

// canAnalyze is the entitlement gate in front of image and recipe analysis.
func canAnalyze(user models.UserProfile) bool {
	return user.IsPremium() || user.ScansRemainingToday > 0
}

// consumeScan charges one successful analysis to a free user.
func consumeScan(user models.UserProfile, today string) models.UserProfile {
	if user.IsPremium() {
		return user
	}
	if user.ScansRemainingToday > 0 {
		user.ScansRemainingToday--
	}
	user.LastScanDate = today
	return user
}
