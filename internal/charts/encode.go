package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/vicanso/go-charts/v2"
)

// Format is the encoded image type.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Size is the canvas size in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

var DefaultSize = Size{Width: 900, Height: 500}

const noData = "No records match the current filters"

// Encode draws a figure. Empty figures become a placeholder chart rather
// than an error; go-charts panics are returned as errors.
func Encode(fig Figure, format Format, size Size) (img []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("render %s: %v", fig.Kind(), r)
		}
	}()
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}
	opts := []charts.OptionFunc{
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(size.Width),
		charts.HeightOptionFunc(size.Height),
	}
	if format == SVG {
		opts = append(opts, charts.SVGTypeOption())
	} else {
		opts = append(opts, charts.PNGTypeOption())
	}

	var p *charts.Painter
	switch f := fig.(type) {
	case OverviewFigure:
		p, err = renderOverview(f, opts)
	case BoxFigure:
		p, err = renderBoxes(f, opts)
	case HistogramFigure:
		p, err = renderHistogram(f, opts)
	case EquityFigure:
		p, err = renderEquity(f, opts)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownFigure, fig)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", fig.Kind(), err)
	}
	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

func renderOverview(f OverviewFigure, opts []charts.OptionFunc) (*charts.Painter, error) {
	labels, volume, sentiment := f.Dates, f.Volume, f.Sentiment
	var leftMax *float64
	var zones []string
	for _, b := range f.Bands {
		zones = append(zones, fmt.Sprintf("%s %.0f–%.0f", b.Name, b.From, b.To))
	}
	subtitle := strings.Join(zones, " | ")
	if f.Empty() {
		labels, volume, sentiment = []string{"no data"}, []float64{0}, []float64{0}
		leftMax = float(1)
		subtitle = noData
	}

	series := charts.NewSeriesListDataFromValues([][]float64{volume}, charts.ChartTypeBar)
	series[0].Name = "Trade Volume"
	lineValues := [][]float64{sentiment}
	names := []string{"Trade Volume", "Sentiment Index"}
	for _, b := range f.Bands {
		// go-charts has no area shapes; a band is drawn as its inner edge.
		edge := b.From
		if b.From <= 0 {
			edge = b.To
		}
		lineValues = append(lineValues, constant(len(labels), edge))
		names = append(names, b.Name)
	}
	lines := charts.NewSeriesListDataFromValues(lineValues, charts.ChartTypeLine)
	for i := range lines {
		lines[i].Name = names[i+1]
		lines[i].AxisIndex = 1
	}
	series = append(series, lines...)

	opts = append(opts,
		charts.TitleTextOptionFunc(f.Title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, SplitNumber: splitFor(len(labels))}),
		charts.YAxisOptionFunc(
			charts.YAxisOption{Min: float(0), Max: leftMax, DivideCount: 5},
			charts.YAxisOption{Min: f.RightAxis.Min, Max: f.RightAxis.Max, DivideCount: 5, Position: charts.PositionRight},
		),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionLeft, Top: charts.PositionTop}),
	)
	return charts.Render(charts.ChartOption{SeriesList: series}, opts...)
}

func renderBoxes(f BoxFigure, opts []charts.OptionFunc) (*charts.Painter, error) {
	names := []string{"Low", "Q1", "Median", "Q3", "High"}
	groups := make([]string, 0, len(f.Boxes))
	values := make([][]float64, len(names))
	var outliers []string
	for _, b := range f.Boxes {
		groups = append(groups, b.Group)
		for i, v := range []float64{b.Low, b.Q1, b.Median, b.Q3, b.High} {
			values[i] = append(values[i], v)
		}
		outliers = append(outliers, fmt.Sprintf("%s: n=%d, %d outliers", b.Group, b.N, len(b.Outliers)))
	}
	subtitle := strings.Join(outliers, " | ")
	if f.Empty() {
		groups = []string{"no data"}
		for i := range values {
			values[i] = []float64{0}
		}
		subtitle = noData
	}

	opts = append(opts,
		charts.TitleTextOptionFunc(f.Title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: groups}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: float(0), Max: float(1), DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight, Top: charts.PositionTop}),
	)
	return charts.BarRender(values, opts...)
}

func renderHistogram(f HistogramFigure, opts []charts.OptionFunc) (*charts.Painter, error) {
	labels := make([]string, 0, len(f.Bins))
	for _, b := range f.Bins {
		labels = append(labels, fmt.Sprintf("%.0f", (b.Lo+b.Hi)/2))
	}
	values := make([][]float64, 0, len(f.Series))
	names := make([]string, 0, len(f.Series))
	for _, s := range f.Series {
		row := make([]float64, len(s.Counts))
		for i, c := range s.Counts {
			row[i] = float64(c)
		}
		values = append(values, row)
		names = append(names, s.Group)
	}
	var marginal []string
	for _, b := range f.Marginal {
		marginal = append(marginal, fmt.Sprintf("%s median %.0f, IQR %.0f..%.0f", b.Group, b.Median, b.Q1, b.Q3))
	}
	subtitle := strings.Join(marginal, " | ")
	var yMax *float64
	if f.Empty() {
		labels, values, names = []string{"no data"}, [][]float64{{0}}, []string{"no data"}
		yMax = float(1)
		subtitle = noData
	}

	opts = append(opts,
		charts.TitleTextOptionFunc(f.Title, subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, SplitNumber: splitFor(len(labels))}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: float(0), Max: yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight, Top: charts.PositionTop}),
	)
	return charts.BarRender(values, opts...)
}

func renderEquity(f EquityFigure, opts []charts.OptionFunc) (*charts.Painter, error) {
	// The line always starts from the starting capital.
	labels := append([]string{"start"}, f.Dates...)
	values := append([]float64{f.StartingCapital}, f.Equity...)
	if len(values) < 2 {
		labels = append(labels, "end")
		values = append(values, f.StartingCapital)
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = math.Abs(maxVal) * 0.05
	}
	if padding == 0 {
		padding = 1
	}
	yMin := minVal - padding
	yMax := maxVal + padding

	opts = append(opts,
		charts.TitleTextOptionFunc(f.Title, f.Subtitle),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        labels,
			SplitNumber: splitFor(len(labels)),
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
	)
	return charts.LineRender([][]float64{values}, opts...)
}

// splitFor picks how many x-axis labels to show.
func splitFor(n int) int {
	split := 10
	if n <= 30 {
		split = n / 3
		if split < 3 {
			split = 3
		}
	}
	return split
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
