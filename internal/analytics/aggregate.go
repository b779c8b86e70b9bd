package analytics

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"sentimentDashboard/internal/dataset"
)

// KPIs are the whole-range metric tiles of the overview tab.
type KPIs struct {
	Records     int     `json:"records"`
	TotalPnL    float64 `json:"total_pnl"`
	AvgWinRate  float64 `json:"-"` // NaN when there are no records
	TotalTrades int     `json:"total_trades"`
}

// HasWinRate reports whether AvgWinRate is defined.
func (k KPIs) HasWinRate() bool { return !math.IsNaN(k.AvgWinRate) }

// MarshalJSON renders an undefined win rate as null.
func (k KPIs) MarshalJSON() ([]byte, error) {
	type plain KPIs
	out := struct {
		plain
		AvgWinRate *float64 `json:"avg_win_rate"`
	}{plain: plain(k)}
	if k.HasWinRate() {
		v := k.AvgWinRate
		out.AvgWinRate = &v
	}
	return json.Marshal(out)
}

// ComputeKPIs sums PnL and trades and averages win rate over the view.
func ComputeKPIs(view dataset.Dataset) KPIs {
	k := KPIs{Records: len(view), AvgWinRate: math.NaN()}
	if len(view) == 0 {
		return k
	}
	rates := make([]float64, len(view))
	for i, r := range view {
		k.TotalPnL += r.DailyPnL
		k.TotalTrades += r.TradeCount
		rates[i] = r.WinRate
	}
	k.AvgWinRate = stat.Mean(rates, nil)
	return k
}

// DailyPoint is one date of the overview chart.
type DailyPoint struct {
	Date          time.Time `json:"date"`
	TradeCount    int       `json:"trade_count"`
	MeanSentiment float64   `json:"mean_sentiment"`
}

// Daily groups the view by date: trade counts are summed, sentiment is
// averaged. Points are ordered by date ascending.
func Daily(view dataset.Dataset) []DailyPoint {
	type acc struct {
		trades    int
		sentiment []float64
	}
	groups := map[time.Time]*acc{}
	for _, r := range view {
		d := dataset.Day(r.Date)
		g, ok := groups[d]
		if !ok {
			g = &acc{}
			groups[d] = g
		}
		g.trades += r.TradeCount
		g.sentiment = append(g.sentiment, r.SentimentValue)
	}

	out := make([]DailyPoint, 0, len(groups))
	for d, g := range groups {
		out = append(out, DailyPoint{
			Date:          d,
			TradeCount:    g.trades,
			MeanSentiment: stat.Mean(g.sentiment, nil),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
