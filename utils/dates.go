package utils

import "time"

const DateLayout = "2006-01-02"

// DayKey is the UTC calendar date used to key daily logs and the scan quota.
func DayKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
