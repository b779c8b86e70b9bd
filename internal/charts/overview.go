package charts

import (
	"sentimentDashboard/internal/analytics"
	"sentimentDashboard/internal/dataset"
)

// Zones are the sentiment thresholds shaded on the overview chart.
type Zones struct {
	FearMax  float64 `json:"fear_max"`
	GreedMin float64 `json:"greed_min"`
}

var DefaultZones = Zones{FearMax: 25, GreedMin: 75}

// OverviewFigure is daily trade volume (left axis, bars) against mean
// sentiment (right axis, line, fixed 0..100).
type OverviewFigure struct {
	Title     string          `json:"title"`
	Dates     []string        `json:"dates"`
	Volume    []float64       `json:"volume"`
	Sentiment []float64       `json:"sentiment"`
	RightAxis AxisRange       `json:"right_axis"`
	Bands     []Band          `json:"bands"`
	Legend    LegendPlacement `json:"legend"`
}

func (f OverviewFigure) Kind() Kind  { return KindOverview }
func (f OverviewFigure) Empty() bool { return len(f.Dates) == 0 }

// Overview aggregates the view by date and lays out the dual-axis chart.
func Overview(view dataset.Dataset, zones Zones) OverviewFigure {
	daily := analytics.Daily(view)
	f := OverviewFigure{
		Title:     "Daily Volume vs Market Sentiment",
		Dates:     make([]string, 0, len(daily)),
		Volume:    make([]float64, 0, len(daily)),
		Sentiment: make([]float64, 0, len(daily)),
		RightAxis: AxisRange{Min: float(0), Max: float(100)},
		Bands: []Band{
			{Name: "Fear Zone", Axis: 1, From: 0, To: zones.FearMax, Color: "red"},
			{Name: "Greed Zone", Axis: 1, From: zones.GreedMin, To: 100, Color: "green"},
		},
		Legend: LegendPlacement{Left: "left", Top: "top", Inside: true},
	}
	for _, p := range daily {
		f.Dates = append(f.Dates, p.Date.Format(dateLabel))
		f.Volume = append(f.Volume, float64(p.TradeCount))
		f.Sentiment = append(f.Sentiment, p.MeanSentiment)
	}
	return f
}
