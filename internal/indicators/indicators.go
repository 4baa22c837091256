// Package indicators computes derived time-series features from a cleaned,
// ascending-by-date price series. All indicators are pure functions of a
// trailing window; undefined leading values are NaN.
package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Returns computes simple returns r[t] = close[t]/close[t-1] - 1.
// r[0] is NaN.
func Returns(close []float64) []float64 {
	out := make([]float64, len(close))
	if len(out) == 0 {
		return out
	}
	out[0] = math.NaN()
	for i := 1; i < len(close); i++ {
		out[i] = close[i]/close[i-1] - 1
	}
	return out
}

// SMA computes the simple moving average over a trailing window. Positions
// with fewer than window observations, or any NaN inside the window, are NaN.
func SMA(x []float64, window int) []float64 {
	return rolling(x, window, stat.Mean)
}

// RollingStd computes the sample standard deviation over a trailing window,
// NaN until the window is full.
func RollingStd(x []float64, window int) []float64 {
	return rolling(x, window, stat.StdDev)
}

// rolling applies fn to each full trailing window of x.
func rolling(x []float64, window int, fn func(x, weights []float64) float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		if i+1 < window {
			out[i] = math.NaN()
			continue
		}
		win := x[i+1-window : i+1]
		if hasNaN(win) {
			out[i] = math.NaN()
			continue
		}
		out[i] = fn(win, nil)
	}
	return out
}

func hasNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// EMA computes the exponential moving average with the recursive definition
// seeded by the first observation (no bias adjustment):
//
//	ema[0] = x[0]
//	ema[t] = alpha*x[t] + (1-alpha)*ema[t-1],  alpha = 2/(span+1)
func EMA(x []float64, span int) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = alpha*x[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI computes the Relative Strength Index over a trailing window: rolling
// mean of positive price changes over rolling mean of sign-flipped negative
// changes. When the average loss is zero the ratio degenerates and the result
// saturates at 100; when both averages are zero the value is NaN.
func RSI(close []float64, window int) []float64 {
	n := len(close)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := range close {
		if i == 0 {
			gains[i] = math.NaN()
			losses[i] = math.NaN()
			continue
		}
		delta := close[i] - close[i-1]
		if delta > 0 {
			gains[i] = delta
			losses[i] = 0
		} else {
			gains[i] = 0
			losses[i] = -delta
		}
	}

	avgGain := SMA(gains, window)
	avgLoss := SMA(losses, window)

	out := make([]float64, n)
	for i := range out {
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD computes the MACD line EMA(short) - EMA(long) and its signal line
// EMA(macd, signal).
func MACD(close []float64, short, long, signal int) (macd, signalLine []float64) {
	emaShort := EMA(close, short)
	emaLong := EMA(close, long)
	macd = make([]float64, len(close))
	for i := range macd {
		macd[i] = emaShort[i] - emaLong[i]
	}
	signalLine = EMA(macd, signal)
	return macd, signalLine
}
