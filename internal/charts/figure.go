// Package charts builds the dashboard figures as plain data and encodes
// them to images with go-charts. Builders are pure functions of the view
// they are given and never modify it.
package charts

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names a figure for routing and caching.
type Kind string

const (
	KindOverview Kind = "overview"
	KindWinRate  Kind = "winrate"
	KindPnL      Kind = "pnl"
	KindEquity   Kind = "equity"
)

var ErrUnknownFigure = errors.New("unknown figure")

// Kinds lists every figure the dashboard serves.
var Kinds = []Kind{KindOverview, KindWinRate, KindPnL, KindEquity}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFigure, s)
}

// Figure is anything Encode can turn into an image.
type Figure interface {
	Kind() Kind
	Empty() bool
}

// Band is a shaded horizontal reference region on one y axis.
type Band struct {
	Name  string  `json:"name"`
	Axis  int     `json:"axis"`
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Color string  `json:"color"`
}

// AxisRange pins an axis; a nil bound is left to the renderer.
type AxisRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// LegendPlacement positions the legend inside the plot area.
type LegendPlacement struct {
	Left   string `json:"left"`
	Top    string `json:"top"`
	Inside bool   `json:"inside"`
}

const dateLabel = "2006-01-02"

func float(v float64) *float64 { return &v }
