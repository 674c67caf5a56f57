package domain

import (
	"math"
	"time"
)

// FirstUSCase is the date of the first confirmed COVID-19 case in the US.
var FirstUSCase = time.Date(2020, time.January, 19, 0, 0, 0, 0, time.UTC)

// DataCoverage describes how much history any state's model can have.
// Forecasts use weekly data, so the number of points is days/7.
type DataCoverage struct {
	DaysSinceFirstCase int
	MaxWeeklyPoints    int
}

// CurrentCoverage computes DataCoverage for today's date.
func CurrentCoverage() DataCoverage {
	return CoverageAt(clock.Now())
}

// CoverageAt computes DataCoverage for the calendar date of now.
func CoverageAt(now time.Time) DataCoverage {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(today.Sub(FirstUSCase).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return DataCoverage{
		DaysSinceFirstCase: days,
		MaxWeeklyPoints:    int(math.Round(float64(days) / 7)),
	}
}
