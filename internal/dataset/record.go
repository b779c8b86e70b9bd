package dataset

import (
	"time"
)

// Record is one daily row of trader performance joined with the market
// sentiment index for that date.
type Record struct {
	Date              time.Time `json:"date"`
	DailyPnL          float64   `json:"daily_pnl"`
	WinRate           float64   `json:"win_rate"`
	TradeCount        int       `json:"trade_count"`
	SentimentValue    float64   `json:"sentiment_value"`
	SentimentCategory string    `json:"sentiment_category"`
	Archetype         string    `json:"archetype"`
}

// Dataset is an ordered collection of records. Dates are not unique.
type Dataset []Record

// Result is what a load hands back: the dataset plus where it came from.
type Result struct {
	Dataset   Dataset
	Source    string
	Synthetic bool
	Warnings  []string
}

// Bounds returns the earliest and latest date in the dataset.
// ok is false for an empty dataset.
func (d Dataset) Bounds() (min, max time.Time, ok bool) {
	if len(d) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = d[0].Date, d[0].Date
	for _, r := range d[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, true
}

// Archetypes lists distinct archetype labels in first-seen order.
func (d Dataset) Archetypes() []string {
	return d.distinct(func(r Record) string { return r.Archetype })
}

// SentimentCategories lists distinct sentiment labels in first-seen order.
func (d Dataset) SentimentCategories() []string {
	return d.distinct(func(r Record) string { return r.SentimentCategory })
}

func (d Dataset) distinct(field func(Record) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 4)
	for _, r := range d {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Clone returns a copy that callers may reorder freely.
func (d Dataset) Clone() Dataset {
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}
