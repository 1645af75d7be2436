package services

import (
	"fmt"
	"time"

	"github.com/jinzhu/inflection"
)

// countNoun formats a count with a correctly pluralized noun, e.g.
// "1 order", "3 orders".
func countNoun(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}

// daysUntil returns whole calendar days from today until t, ignoring the
// time-of-day component on both sides.
func daysUntil(t time.Time) int {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, t.Location())
	due := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return int(due.Sub(today).Hours() / 24)
}

func round1(x float64) float64 {
	return roundTo(x, 10)
}

func round2(x float64) float64 {
	return roundTo(x, 100)
}

func roundTo(x float64, factor float64) float64 {
	if x >= 0 {
		return float64(int64(x*factor+0.5)) / factor
	}
	return float64(int64(x*factor-0.5)) / factor
}
