package esmutils

import (
	"math"
	"time"
)

// No negative values
func KwToW(kw float64) uint32 {
	if kw < 0 {
		return 0
	}
	return uint32(math.Round(kw * 1000))
}

func WToKw(w uint32) float64 {
	return float64(w) / 1000
}

// Hours expresses a duration as fractional hours. Negative durations stay negative.
func Hours(d time.Duration) float64 {
	return float64(d) / float64(time.Hour)
}
