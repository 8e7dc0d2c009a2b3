package utils

import (
	"fmt"
	"math"
)

// FormatTimeSpent renders a duration in seconds the way the apps display it:
// "45s" under a minute, "2m 3s" under an hour, "1h 5m" beyond that.
func FormatTimeSpent(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// Round2 rounds to two decimal places for presentation.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
