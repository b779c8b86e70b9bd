package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sentimentDashboard/internal/dataset"
)

// Strategy is a binary trading rule for the what-if simulator.
type Strategy string

const (
	BuyHold  Strategy = "buy_hold"
	AntiFear Strategy = "anti_fear"
)

// DefaultAntiFearMin is the lowest sentiment on which AntiFear still trades.
const DefaultAntiFearMin = 25.0

var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategies lists the simulator choices in display order.
var Strategies = []Strategy{BuyHold, AntiFear}

// Label is the human name shown in selectors and captions.
func (s Strategy) Label() string {
	switch s {
	case BuyHold:
		return "Buy & Hold (Benchmark)"
	case AntiFear:
		return "Anti-Fear Strategy (Smart Beta)"
	default:
		return string(s)
	}
}

// ParseStrategy accepts ids, labels and the short forms users type.
func ParseStrategy(s string) (Strategy, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "", "buy_hold", "buyhold", "buy-hold", "bh", "benchmark", strings.ToLower(BuyHold.Label()):
		return BuyHold, nil
	case "anti_fear", "antifear", "anti-fear", "af", "smart_beta", strings.ToLower(AntiFear.Label()):
		return AntiFear, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// EquityPoint is one day of the simulated equity curve.
type EquityPoint struct {
	Date          time.Time `json:"date"`
	DailyPnL      float64   `json:"daily_pnl"`
	CumulativePnL float64   `json:"cumulative_pnl"`
	Equity        float64   `json:"equity"`
}

// Simulation is the outcome of one simulator run.
type Simulation struct {
	Strategy        Strategy      `json:"strategy"`
	StartingCapital float64       `json:"starting_capital"`
	Curve           []EquityPoint `json:"curve"`
	FinalEquity     float64       `json:"final_equity"`
	ROI             float64       `json:"roi"`         // percent; 0 when ROIDefined is false
	ROIDefined      bool          `json:"roi_defined"` // false when starting capital is zero
	Excluded        int           `json:"excluded"`    // rows dropped by the rule
	MaxDrawdown     float64       `json:"max_drawdown"`
	TradingDays     int           `json:"trading_days"`
}

// Simulator runs strategies over the full, unfiltered dataset.
type Simulator struct {
	AntiFearMin float64
}

func NewSimulator(antiFearMin float64) Simulator {
	return Simulator{AntiFearMin: antiFearMin}
}

// Simulate sorts the dataset by date, applies the strategy's row filter and
// accumulates daily PnL on top of the starting capital.
func (s Simulator) Simulate(ds dataset.Dataset, capital float64, strategy Strategy) Simulation {
	rows := ds.Clone()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })

	if strategy == AntiFear {
		kept := rows[:0]
		for _, r := range rows {
			if r.SentimentValue >= s.AntiFearMin {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	start := decimal.NewFromFloat(capital)
	cum := decimal.Zero
	curve := make([]EquityPoint, 0, len(rows))
	for _, r := range rows {
		cum = cum.Add(decimal.NewFromFloat(r.DailyPnL))
		curve = append(curve, EquityPoint{
			Date:          r.Date,
			DailyPnL:      r.DailyPnL,
			CumulativePnL: cum.InexactFloat64(),
			Equity:        start.Add(cum).InexactFloat64(),
		})
	}

	sim := Simulation{
		Strategy:        strategy,
		StartingCapital: capital,
		Curve:           curve,
		FinalEquity:     capital,
		Excluded:        len(ds) - len(rows),
		TradingDays:     len(rows),
	}
	final := start
	if len(curve) > 0 {
		final = start.Add(cum)
		sim.FinalEquity = final.InexactFloat64()
	}
	if !start.IsZero() {
		sim.ROI = final.Sub(start).Div(start).Mul(decimal.NewFromInt(100)).InexactFloat64()
		sim.ROIDefined = true
	}

	equity := make([]float64, len(curve))
	for i, p := range curve {
		equity[i] = p.Equity
	}
	sim.MaxDrawdown = maxDrawdown(equity) * 100
	return sim
}

// maxDrawdown is the largest peak-to-trough decline as a fraction of the
// peak. Peaks at or below zero are skipped.
func maxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}

	maxDD := 0.0
	peak := values[0]
	if peak <= 0 {
		for i := 1; i < len(values); i++ {
			if values[i] > 0 {
				peak = values[i]
				break
			}
		}
		if peak <= 0 {
			return 0.0
		}
	}

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 && v >= 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
