package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrMalformed marks a source file whose contents cannot be turned into a
// dataset. It is fatal for the load; no fallback data is produced.
var ErrMalformed = errors.New("malformed dataset")

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate accepts the ISO date shapes pandas and spreadsheets emit and
// truncates the result to a calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// validate checks the per-row invariants every source must satisfy.
func validate(i int, r Record) error {
	row := i + 1
	if r.Date.IsZero() {
		return fmt.Errorf("%w: row %d: missing date", ErrMalformed, row)
	}
	for name, v := range map[string]float64{
		"daily_pnl":       r.DailyPnL,
		"win_rate":        r.WinRate,
		"sentiment_value": r.SentimentValue,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: row %d: %s is not finite", ErrMalformed, row, name)
		}
	}
	if r.WinRate < 0 || r.WinRate > 1 {
		return fmt.Errorf("%w: row %d: win_rate %v outside [0,1]", ErrMalformed, row, r.WinRate)
	}
	if r.TradeCount < 0 {
		return fmt.Errorf("%w: row %d: negative trade_count %d", ErrMalformed, row, r.TradeCount)
	}
	if strings.TrimSpace(r.SentimentCategory) == "" {
		return fmt.Errorf("%w: row %d: empty sentiment_category", ErrMalformed, row)
	}
	if strings.TrimSpace(r.Archetype) == "" {
		return fmt.Errorf("%w: row %d: empty archetype", ErrMalformed, row)
	}
	return nil
}

func validateAll(ds Dataset) error {
	for i, r := range ds {
		if err := validate(i, r); err != nil {
			return err
		}
	}
	return nil
}
