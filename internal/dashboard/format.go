package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Placeholder shown for metrics that are undefined on an empty view.
const Placeholder = "—"

// Currency renders whole dollars: $12,345 or -$1,200.
func Currency(v float64) string {
	sign, abs := split(math.Round(v))
	return sign + "$" + humanize.Comma(int64(abs))
}

// CurrencyCents renders dollars with cents: $11,250.00.
func CurrencyCents(v float64) string {
	sign, abs := split(math.Round(v*100) / 100)
	return sign + "$" + humanize.FormatFloat("#,###.##", abs)
}

// Percent renders a 0..1 rate as 45.3%, or the placeholder when NaN.
func Percent(rate float64) string {
	if math.IsNaN(rate) {
		return Placeholder
	}
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Int renders a count with thousands separators.
func Int(n int) string {
	return humanize.Comma(int64(n))
}

// ROIDelta renders a percentage ROI for the simulator metric.
func ROIDelta(roi float64, defined bool) string {
	if !defined {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%% ROI", roi)
}

func split(v float64) (string, float64) {
	if v < 0 {
		return "-", -v
	}
	return "", v
}
