package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimentDashboard/internal/analytics"
	"sentimentDashboard/internal/charts"
	"sentimentDashboard/internal/dashboard"
	"sentimentDashboard/internal/dataset"
)

const fixture = `date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype
2024-01-01,100,0.5,10,20,Fear,The Snipers
2024-01-02,-50,0.4,20,60,Greed,The Whales
2024-01-03,200,0.6,30,80,Greed,The Gamblers
`

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))
	svc := dashboard.New(dashboard.Settings{
		DataPath:       path,
		Zones:          charts.DefaultZones,
		AntiFearMin:    analytics.DefaultAntiFearMin,
		DefaultCapital: 10000,
		CapitalStep:    1000,
		Size:           charts.DefaultSize,
	}, dataset.NewLoader(dataset.Generator{Rows: 10, Seed: 1}), charts.NewCache(time.Minute), nil)
	return NewRouter(svc, nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestParseControls_EmptyVersusAbsent(t *testing.T) {
	c, err := parseControls(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, c.Archetypes)
	assert.Nil(t, c.Sentiments)
	assert.Nil(t, c.Capital)

	c, err = parseControls(url.Values{"archetype": {""}, "sentiment": {"", "Fear"}})
	require.NoError(t, err)
	assert.Equal(t, []string{}, c.Archetypes)
	assert.Equal(t, []string{"Fear"}, c.Sentiments)

	for _, q := range []string{"start=01/02/2024", "end=x", "capital=lots", "strategy=yolo"} {
		v, _ := url.ParseQuery(q)
		_, err := parseControls(v)
		assert.Error(t, err, q)
	}
}

func TestView(t *testing.T) {
	h := newRouter(t)
	rec := get(t, h, "/api/view?sentiment=Greed&start=2024-01-02&end=2024-01-02")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
		KPIs   struct {
			Records    int      `json:"records"`
			TotalPnL   float64  `json:"total_pnl"`
			AvgWinRate *float64 `json:"avg_win_rate"`
		} `json:"kpis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Showing 1 records", body.Status)
	assert.Equal(t, 1, body.KPIs.Records)
	assert.Equal(t, -50.0, body.KPIs.TotalPnL)
	require.NotNil(t, body.KPIs.AvgWinRate)
	assert.InDelta(t, 0.4, *body.KPIs.AvgWinRate, 1e-9)
}

func TestView_EmptySelectionIsNotAnError(t *testing.T) {
	rec := get(t, newRouter(t), "/api/view?archetype=")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"avg_win_rate":null`)
	assert.Contains(t, rec.Body.String(), `"Showing 0 records"`)
}

func TestBadInputIs400(t *testing.T) {
	h := newRouter(t)
	for _, target := range []string{
		"/api/view?start=nope",
		"/api/simulate?capital=-10",
		"/api/simulate?capital=NaN",
		"/api/simulate?capital=Inf",
		"/charts/equity.png?capital=-inf",
		"/api/simulate?strategy=martingale",
		"/charts/overview.png?end=2024-13-40",
	} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		var body errorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), target)
		assert.NotEmpty(t, body.Error, target)
	}
}

func TestSimulate(t *testing.T) {
	rec := get(t, newRouter(t), "/api/simulate?capital=1000&strategy=anti_fear&sentiment=")
	require.Equal(t, http.StatusOK, rec.Code)

	var body simulateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1150.0, body.Simulation.FinalEquity)
	assert.Equal(t, 1, body.Simulation.Excluded)
	assert.Equal(t, "+15.0% ROI", body.Tiles[0].Delta)
	assert.Contains(t, body.Notice, "avoided 1 high-risk")
}

func TestCharts(t *testing.T) {
	h := newRouter(t)
	rec := get(t, h, "/charts/winrate.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}))

	rec = get(t, h, "/charts/equity.svg?strategy=antifear")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/charts/scatter.png").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/charts/overview.gif").Code)
}

func TestPage(t *testing.T) {
	h := newRouter(t)
	rec := get(t, h, "/?tab=simulator&strategy=anti_fear")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Crypto Trader Performance vs. Market Sentiment")
	assert.Contains(t, body, `/charts/equity.png?strategy=anti_fear`)
	assert.Contains(t, body, "By filtering out Extreme Fear days")
	assert.Contains(t, body, `<option value="The Whales" selected>`)

	rec = get(t, h, "/?tab=strategy")
	assert.Contains(t, rec.Body.String(), "fatter tails")
}

func TestInsightWithoutNarrator(t *testing.T) {
	rec := get(t, newRouter(t), "/api/insight")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExportAndOptions(t *testing.T) {
	h := newRouter(t)
	rec := get(t, h, "/api/export.csv?archetype=The+Whales")
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "date,"))
	assert.Contains(t, lines[1], "The Whales")

	rec = get(t, h, "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)
	var opts dashboard.Options
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"Fear", "Greed"}, opts.Sentiments)
	assert.Equal(t, 1000.0, opts.CapitalStep)
}

func TestCacheClearAndHealth(t *testing.T) {
	h := newRouter(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cache/clear", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, get(t, h, "/api/cache/clear").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/telegram/webhook").Code)
}
