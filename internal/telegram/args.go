package telegram

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sentimentDashboard/internal/analytics"
	"sentimentDashboard/internal/dashboard"
	"sentimentDashboard/internal/dataset"
)

// ParseArgs turns command arguments into dashboard controls.
// Format: [from=YYYY-MM-DD] [to=YYYY-MM-DD] [seg=a,b] [mood=x,y] [capital] [strategy]
// seg and mood values match known labels by case-insensitive substring;
// "none" selects nothing. Bare numbers and strategy names are only
// accepted when simulator is true.
func ParseArgs(input string, opts *dashboard.Options, simulator bool) (dashboard.Controls, error) {
	var c dashboard.Controls
	for _, part := range strings.Fields(input) {
		key, value, isPair := strings.Cut(part, "=")
		if isPair {
			switch strings.ToLower(key) {
			case "from", "start":
				t, err := dataset.ParseDate(value)
				if err != nil {
					return c, fmt.Errorf("invalid from date '%s'", value)
				}
				c.Start = t
			case "to", "end":
				t, err := dataset.ParseDate(value)
				if err != nil {
					return c, fmt.Errorf("invalid to date '%s'", value)
				}
				c.End = t
			case "seg", "segment", "archetype":
				labels, err := matchLabels(value, opts.Archetypes, "segment")
				if err != nil {
					return c, err
				}
				c.Archetypes = labels
			case "mood", "sentiment":
				labels, err := matchLabels(value, opts.Sentiments, "sentiment")
				if err != nil {
					return c, err
				}
				c.Sentiments = labels
			default:
				return c, fmt.Errorf("unknown option '%s'", key)
			}
			continue
		}

		if !simulator {
			return c, fmt.Errorf("unexpected argument '%s'", part)
		}
		if v, err := strconv.ParseFloat(strings.TrimPrefix(part, "$"), 64); err == nil {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return c, fmt.Errorf("starting capital %s must be a finite number", part)
			}
			if v < 0 {
				return c, fmt.Errorf("starting capital %s must not be negative", part)
			}
			c.Capital = &v
			continue
		}
		st, err := analytics.ParseStrategy(part)
		if err != nil {
			return c, fmt.Errorf("unknown strategy '%s' (use buyhold or antifear)", part)
		}
		c.Strategy = st
	}
	return c, nil
}

// matchLabels resolves a comma list of fragments against known labels,
// keeping the known order. The result is non-nil even when empty.
func matchLabels(value string, known []string, what string) ([]string, error) {
	out := []string{}
	if strings.EqualFold(strings.TrimSpace(value), "none") {
		return out, nil
	}
	picked := map[string]bool{}
	for _, frag := range strings.Split(value, ",") {
		frag = strings.ToLower(strings.TrimSpace(frag))
		if frag == "" {
			continue
		}
		found := false
		for _, k := range known {
			if strings.Contains(strings.ToLower(k), frag) {
				picked[k] = true
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("no %s matches '%s' (known: %s)", what, frag, strings.Join(known, ", "))
		}
	}
	for _, k := range known {
		if picked[k] {
			out = append(out, k)
		}
	}
	return out, nil
}
