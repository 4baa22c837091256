package indicators

import (
	"fmt"
	"math"

	"sipafcli/internal/cleaning"
	"sipafcli/internal/dataset"
)

// Standard windows for the exploratory indicator set.
const (
	VolatilityWindow = 20
	SMAShortWindow   = 20
	SMALongWindow    = 50
	RSIWindow        = 14
	MACDShortSpan    = 12
	MACDLongSpan     = 26
	MACDSignalSpan   = 9
)

// Enrich appends the indicator columns (retorno, volatilidad, SMA_20, SMA_50,
// RSI, MACD, Signal) to a cleaned price dataset, aligned by row. The dataset
// must carry the canonical close column; rows whose close is missing yield
// NaN through every indicator that reads them.
func Enrich(d *dataset.Dataset) error {
	closeCells := d.Column(cleaning.RoleClose)
	if closeCells == nil {
		return fmt.Errorf("dataset has no %q column", cleaning.RoleClose)
	}

	closes := make([]float64, len(closeCells))
	for i, cell := range closeCells {
		if v, ok := cell.Float(); ok {
			closes[i] = v
		} else {
			closes[i] = math.NaN()
		}
	}

	returns := Returns(closes)
	volatility := RollingStd(returns, VolatilityWindow)
	smaShort := SMA(closes, SMAShortWindow)
	smaLong := SMA(closes, SMALongWindow)
	rsi := RSI(closes, RSIWindow)
	macd, signal := MACD(closes, MACDShortSpan, MACDLongSpan, MACDSignalSpan)

	d.AddColumn("retorno", toCells(returns))
	d.AddColumn("volatilidad", toCells(volatility))
	d.AddColumn("SMA_20", toCells(smaShort))
	d.AddColumn("SMA_50", toCells(smaLong))
	d.AddColumn("RSI", toCells(rsi))
	d.AddColumn("MACD", toCells(macd))
	d.AddColumn("Signal", toCells(signal))
	return nil
}

func toCells(x []float64) []dataset.Cell {
	out := make([]dataset.Cell, len(x))
	for i, v := range x {
		out[i] = dataset.Num(v) // NaN renders as missing
	}
	return out
}
