package charts

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"sentimentDashboard/internal/dataset"
)

// whiskerK is the Tukey fence multiplier: points beyond k*IQR from the
// quartiles are drawn as outliers.
const whiskerK = 1.5

// BoxStats summarises one group for a box plot.
type BoxStats struct {
	Group    string    `json:"group"`
	N        int       `json:"n"`
	Low      float64   `json:"low"` // lower whisker end
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	High     float64   `json:"high"` // upper whisker end
	Mean     float64   `json:"mean"`
	Outliers []float64 `json:"outliers"`
}

// BoxFigure is one box per sentiment category.
type BoxFigure struct {
	Title  string     `json:"title"`
	Metric string     `json:"metric"`
	Boxes  []BoxStats `json:"boxes"`
}

func (f BoxFigure) Kind() Kind  { return KindWinRate }
func (f BoxFigure) Empty() bool { return len(f.Boxes) == 0 }

// WinRateBySentiment draws win rate distributions grouped by category, in
// the order categories first appear in the view.
func WinRateBySentiment(view dataset.Dataset) BoxFigure {
	f := BoxFigure{Title: "Win Rate Distribution by Sentiment", Metric: "win_rate", Boxes: []BoxStats{}}
	groups := groupBy(view, func(r dataset.Record) float64 { return r.WinRate })
	for _, g := range groups {
		f.Boxes = append(f.Boxes, boxStats(g.name, g.values))
	}
	return f
}

type group struct {
	name   string
	values []float64
}

func groupBy(view dataset.Dataset, value func(dataset.Record) float64) []group {
	index := map[string]int{}
	var out []group
	for _, r := range view {
		i, ok := index[r.SentimentCategory]
		if !ok {
			i = len(out)
			index[r.SentimentCategory] = i
			out = append(out, group{name: r.SentimentCategory})
		}
		out[i].values = append(out[i].values, value(r))
	}
	return out
}

// boxStats computes quartiles by linear interpolation and Tukey whiskers.
func boxStats(name string, values []float64) BoxStats {
	b := BoxStats{Group: name, N: len(values), Outliers: []float64{}}
	if len(values) == 0 {
		return b
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	b.Q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	b.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	b.Q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	b.Mean = stat.Mean(sorted, nil)

	iqr := b.Q3 - b.Q1
	lower, upper := b.Q1-whiskerK*iqr, b.Q3+whiskerK*iqr
	b.Low, b.High = b.Q1, b.Q3
	first := true
	for _, v := range sorted {
		if v < lower || v > upper {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if first {
			b.Low = v
			first = false
		}
		b.High = v
	}
	return b
}
