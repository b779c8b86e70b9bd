package charts

import (
	"fmt"

	"sentimentDashboard/internal/analytics"
)

// EquityFigure is the simulated account value over time.
type EquityFigure struct {
	Title           string    `json:"title"`
	Subtitle        string    `json:"subtitle"`
	Dates           []string  `json:"dates"`
	Equity          []float64 `json:"equity"`
	StartingCapital float64   `json:"starting_capital"`
}

func (f EquityFigure) Kind() Kind  { return KindEquity }
func (f EquityFigure) Empty() bool { return len(f.Dates) == 0 }

// EquityCurve lays out a simulation's equity by date.
func EquityCurve(sim analytics.Simulation) EquityFigure {
	f := EquityFigure{
		Title:           "Equity Curve • " + sim.Strategy.Label(),
		Dates:           make([]string, 0, len(sim.Curve)),
		Equity:          make([]float64, 0, len(sim.Curve)),
		StartingCapital: sim.StartingCapital,
	}
	roi := "n/a"
	if sim.ROIDefined {
		roi = fmt.Sprintf("%+.1f%%", sim.ROI)
	}
	f.Subtitle = fmt.Sprintf("Final: $%.2f | ROI: %s | MaxDD: %.2f%% | Days: %d",
		sim.FinalEquity, roi, sim.MaxDrawdown, sim.TradingDays)
	for _, p := range sim.Curve {
		f.Dates = append(f.Dates, p.Date.Format(dateLabel))
		f.Equity = append(f.Equity, p.Equity)
	}
	return f
}
