package analytics

import (
	"time"

	"sentimentDashboard/internal/dataset"
)

// Criteria is the sidebar selection. An empty (or nil) set selects nothing;
// use DefaultCriteria for "everything".
type Criteria struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Archetypes []string  `json:"archetypes"`
	Sentiments []string  `json:"sentiments"`
}

// DefaultCriteria spans the observed date range and every observed label.
func DefaultCriteria(ds dataset.Dataset) Criteria {
	min, max, _ := ds.Bounds()
	return Criteria{
		Start:      min,
		End:        max,
		Archetypes: ds.Archetypes(),
		Sentiments: ds.SentimentCategories(),
	}
}

// Apply returns the records inside [Start, End] (both inclusive, compared
// by calendar day) whose archetype and sentiment category are selected.
// The input is never modified.
func Apply(ds dataset.Dataset, c Criteria) dataset.Dataset {
	out := make(dataset.Dataset, 0, len(ds))
	if len(c.Archetypes) == 0 || len(c.Sentiments) == 0 {
		return out
	}
	start, end := dataset.Day(c.Start), dataset.Day(c.End)
	if end.Before(start) {
		return out
	}
	archetypes := toSet(c.Archetypes)
	sentiments := toSet(c.Sentiments)
	for _, r := range ds {
		d := dataset.Day(r.Date)
		if d.Before(start) || d.After(end) {
			continue
		}
		if _, ok := archetypes[r.Archetype]; !ok {
			continue
		}
		if _, ok := sentiments[r.SentimentCategory]; !ok {
			continue
		}
		out = append(out, r)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
