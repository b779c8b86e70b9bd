package charts

import (
	"math"

	"github.com/dustin/go-humanize"

	"sentimentDashboard/internal/dataset"
)

const (
	DefaultHistogramTrim = 1000.0
	DefaultHistogramBins = 50
)

// Bin is a half-open interval [Lo, Hi); the last bin also holds Hi.
type Bin struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// HistogramSeries holds one category's counts, aligned with the figure bins.
type HistogramSeries struct {
	Group  string `json:"group"`
	Counts []int  `json:"counts"`
}

// HistogramFigure is the daily PnL distribution with a marginal box per
// category.
type HistogramFigure struct {
	Title    string            `json:"title"`
	Trim     float64           `json:"trim"`
	Bins     []Bin             `json:"bins"`
	Series   []HistogramSeries `json:"series"`
	Marginal []BoxStats        `json:"marginal"`
	Values   int               `json:"values"`
}

func (f HistogramFigure) Kind() Kind  { return KindPnL }
func (f HistogramFigure) Empty() bool { return f.Values == 0 }

// TrimPnL keeps the records whose daily PnL lies in [-trim, trim]. It only
// narrows what the histogram sees; the view itself is left untouched.
func TrimPnL(view dataset.Dataset, trim float64) dataset.Dataset {
	out := make(dataset.Dataset, 0, len(view))
	for _, r := range view {
		if r.DailyPnL >= -trim && r.DailyPnL <= trim {
			out = append(out, r)
		}
	}
	return out
}

// PnLHistogram bins trimmed daily PnL into equal-width bins spanning the
// trimmed values, counted per sentiment category.
func PnLHistogram(view dataset.Dataset, trim float64, bins int) HistogramFigure {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	f := HistogramFigure{
		Title:    "Daily PnL Distribution (Trimmed ±$" + formatTrim(trim) + ")",
		Trim:     trim,
		Bins:     []Bin{},
		Series:   []HistogramSeries{},
		Marginal: []BoxStats{},
	}
	trimmed := TrimPnL(view, trim)
	f.Values = len(trimmed)
	if len(trimmed) == 0 {
		return f
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range trimmed {
		lo = math.Min(lo, r.DailyPnL)
		hi = math.Max(hi, r.DailyPnL)
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}
	f.Bins = make([]Bin, bins)
	for i := range f.Bins {
		f.Bins[i] = Bin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}

	for _, g := range groupBy(trimmed, func(r dataset.Record) float64 { return r.DailyPnL }) {
		counts := make([]int, bins)
		for _, v := range g.values {
			i := int((v - lo) / width)
			if i >= bins {
				i = bins - 1
			}
			counts[i]++
		}
		f.Series = append(f.Series, HistogramSeries{Group: g.name, Counts: counts})
		f.Marginal = append(f.Marginal, boxStats(g.name, g.values))
	}
	return f
}

func formatTrim(trim float64) string {
	return humanize.Commaf(trim)
}
