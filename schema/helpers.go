package schema

import (
	"math"
	"strings"
	"time"
)

// containsPattern matches a pattern substring against a package name.
func containsPattern(name, pattern string) bool {
	return strings.Contains(name, pattern)
}

// PartitionKey formats a time as a history partition key, truncated to day.
func PartitionKey(t time.Time) string {
	return t.Format(PartitionLayout)
}

// LastMonthPartition returns the partition key used for prior-run lookups:
// the same day of the previous month. Day-of-month is clamped when the
// previous month is shorter (e.g. March 31 looks back to February 28).
func LastMonthPartition(today time.Time) string {
	year, month, day := today.Date()
	month--
	if month == 0 {
		month = 12
		year--
	}
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return PartitionKey(time.Date(year, month, day, 0, 0, 0, 0, today.Location()))
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RoundScore converts the checker's 0.0-1.0 completeness fraction into a
// percentage rounded to one decimal place.
func RoundScore(fraction float64) float64 {
	return math.Round(fraction*1000) / 10
}
