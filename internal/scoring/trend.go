package scoring

import (
	"github.com/anporter/pulseboard/pkg/models"
)

// Trend forecaster constants. The fit is a deliberately coarse 24-hour linear
// extrapolation of systolic pressure, not a probabilistic forecast.
const (
	TrendWindow          = 7 // most-recent readings considered
	minTrendPoints       = 3
	forecastHorizonHours = 24.0

	trendSystolicHigh     = 145.0
	trendSystolicModerate = 135.0

	trendRiskHigh     = 75
	trendRiskModerate = 40
	trendRiskLow      = 10
)

// TrendRisk fits an ordinary least-squares line of systolic pressure against
// elapsed hours and buckets the value extrapolated 24 hours past the newest
// reading. Readings without a systolic value are ignored; fewer than 3 usable
// points yields contribution 0. Degenerate inputs (all readings at the same
// instant, or a flat series) produce a flat fit, never an error.
func TrendRisk(readings []*models.VitalsReading) int {
	var xs, ys []float64
	for _, r := range readings {
		if r.Systolic == nil {
			continue
		}
		xs = append(xs, float64(r.CreatedAt.UnixMilli()))
		ys = append(ys, float64(*r.Systolic))
	}
	if len(xs) < minTrendPoints {
		return 0
	}

	// Rebase timestamps to elapsed hours since the earliest reading.
	earliest := xs[0]
	for _, x := range xs[1:] {
		if x < earliest {
			earliest = x
		}
	}
	maxHours := 0.0
	for i := range xs {
		xs[i] = (xs[i] - earliest) / (1000 * 60 * 60)
		if xs[i] > maxHours {
			maxHours = xs[i]
		}
	}

	slope, intercept := fitLine(xs, ys)
	predicted := intercept + slope*(maxHours+forecastHorizonHours)

	switch {
	case predicted > trendSystolicHigh:
		return trendRiskHigh
	case predicted > trendSystolicModerate:
		return trendRiskModerate
	default:
		return trendRiskLow
	}
}

// fitLine computes an OLS fit y = intercept + slope*x. A zero x-variance
// (collinear timestamps) yields slope 0 and intercept mean(y).
func fitLine(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var xMean, yMean float64
	for i := range xs {
		xMean += xs[i]
		yMean += ys[i]
	}
	xMean /= n
	yMean /= n

	var num, den float64
	for i := range xs {
		dx := xs[i] - xMean
		num += dx * (ys[i] - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0, yMean
	}
	slope = num / den
	return slope, yMean - slope*xMean
}
