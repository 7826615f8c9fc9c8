// Package signal computes the Williams VIX Fix indicator and the
// per-day buy/sell/neutral classification over a bar series.
package signal

import "math"

// Rolling helpers over a trailing window. A partial window at the head
// of the series computes over whatever prefix exists, so the outputs
// have the same length as the input from the first element on.

func rollingMax(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		max := series[start]
		for _, v := range series[start+1 : i+1] {
			if v > max {
				max = v
			}
		}
		out[i] = max
	}
	return out
}

func rollingMin(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		min := series[start]
		for _, v := range series[start+1 : i+1] {
			if v < min {
				min = v
			}
		}
		out[i] = min
	}
	return out
}

func rollingMean(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	sum := 0.0
	for i := range series {
		sum += series[i]
		if i >= window {
			sum -= series[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// rollingStdev is the sample standard deviation over the trailing
// window. A window holding fewer than two values has no spread and
// yields zero.
func rollingStdev(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		n := i - start + 1
		if n < 2 {
			out[i] = 0
			continue
		}

		mean := 0.0
		for _, v := range series[start : i+1] {
			mean += v
		}
		mean /= float64(n)

		var sq float64
		for _, v := range series[start : i+1] {
			d := v - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(n-1))
	}
	return out
}
