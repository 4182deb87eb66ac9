package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tartampluch/go-weeks/internal/config"
)

// Stats summarizes a timeline relative to now.
type Stats struct {
	TotalWeeks      int     `json:"totalWeeks"`
	WeeksLived      int     `json:"weeksLived"`
	WeeksRemaining  int     `json:"weeksRemaining"`
	PercentageLived float64 `json:"percentageLived"`
	CurrentAge      int     `json:"currentAge"`
}

// ComputeStats reduces a generated timeline to its summary counts. The birth
// date is taken from the first week. Weeks lived are whole weeks, truncated,
// and never negative.
func ComputeStats(weeks []Week, now time.Time) (Stats, error) {
	if len(weeks) == 0 {
		return Stats{}, errors.New(config.ErrNoWeeks)
	}

	birth := weeks[0].StartDate
	total := len(weeks)

	lived := 0
	if now.After(birth) {
		lived = WeekIndexOf(birth, now.In(birth.Location()))
	}

	return Stats{
		TotalWeeks:      total,
		WeeksLived:      lived,
		WeeksRemaining:  total - lived,
		PercentageLived: round1(float64(lived) / float64(total) * 100),
		CurrentAge:      lived / config.WeeksPerYear,
	}, nil
}

// PercentageLabel renders the percentage with one decimal ("63.4").
func (s Stats) PercentageLabel() string {
	return fmt.Sprintf(config.FormatPercent, s.PercentageLived)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
