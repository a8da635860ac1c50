// Package baseline maintains per-patient rolling statistics of vital signs.
package baseline

import "math"

// ChannelStats is the mean and sample standard deviation for one vital
// channel. Mean is nil when the channel has no observations; StdDev is nil
// when fewer than two observations exist.
type ChannelStats struct {
	Mean   *float64
	StdDev *float64
}

// Summarize computes mean and sample standard deviation (n-1 denominator)
// over a channel's observed values.
func Summarize(values []float64) ChannelStats {
	n := len(values)
	if n == 0 {
		return ChannelStats{}
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	if n < 2 {
		return ChannelStats{Mean: &mean}
	}

	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	stddev := math.Sqrt(sqDiff / float64(n-1))

	return ChannelStats{Mean: &mean, StdDev: &stddev}
}
