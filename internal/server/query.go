package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"sentimentDashboard/internal/analytics"
	"sentimentDashboard/internal/dashboard"
	"sentimentDashboard/internal/dataset"
)

// parseControls reads the dashboard controls from a query string.
// An absent archetype/sentiment key selects everything; a key present only
// with empty values selects nothing.
func parseControls(q url.Values) (dashboard.Controls, error) {
	var c dashboard.Controls
	if v := strings.TrimSpace(q.Get("start")); v != "" {
		t, err := dataset.ParseDate(v)
		if err != nil {
			return c, fmt.Errorf("invalid start %q", v)
		}
		c.Start = t
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		t, err := dataset.ParseDate(v)
		if err != nil {
			return c, fmt.Errorf("invalid end %q", v)
		}
		c.End = t
	}
	c.Archetypes = labels(q, "archetype")
	c.Sentiments = labels(q, "sentiment")

	if v := strings.TrimSpace(q.Get("capital")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return c, fmt.Errorf("invalid capital %q", v)
		}
		c.Capital = &f
	}
	if v := strings.TrimSpace(q.Get("strategy")); v != "" {
		st, err := analytics.ParseStrategy(v)
		if err != nil {
			return c, err
		}
		c.Strategy = st
	}
	return c, nil
}

func labels(q url.Values, key string) []string {
	values, ok := q[key]
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
