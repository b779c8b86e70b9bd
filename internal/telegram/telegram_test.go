package telegram

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
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

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) last(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func newHandlers(t *testing.T) (*Handlers, *fakeSender) {
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
	sender := &fakeSender{}
	return NewHandlers(sender, svc), sender
}

func message(text string) *tgbotapi.Message {
	return &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: 42}}
}

var testOptions = &dashboard.Options{
	Archetypes: []string{"The Snipers", "The Gamblers", "The Whales"},
	Sentiments: []string{"Fear", "Greed"},
}

func TestParseArgs(t *testing.T) {
	c, err := ParseArgs("from=2024-01-02 to=2024-02-01 seg=whale,SNIP mood=greed", testOptions, false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), c.Start)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), c.End)
	assert.Equal(t, []string{"The Snipers", "The Whales"}, c.Archetypes)
	assert.Equal(t, []string{"Greed"}, c.Sentiments)
	assert.Nil(t, c.Capital)

	c, err = ParseArgs("", testOptions, false)
	require.NoError(t, err)
	assert.Nil(t, c.Archetypes, "absent filter selects everything")

	c, err = ParseArgs("mood=none", testOptions, false)
	require.NoError(t, err)
	assert.NotNil(t, c.Sentiments)
	assert.Empty(t, c.Sentiments)
}

func TestParseArgs_Simulator(t *testing.T) {
	c, err := ParseArgs("25000 antifear", testOptions, true)
	require.NoError(t, err)
	require.NotNil(t, c.Capital)
	assert.Equal(t, 25000.0, *c.Capital)
	assert.Equal(t, analytics.AntiFear, c.Strategy)

	_, err = ParseArgs("-5", testOptions, true)
	assert.Error(t, err)
	for _, in := range []string{"nan", "NaN antifear", "inf", "-Inf", "$+inf"} {
		_, err = ParseArgs(in, testOptions, true)
		assert.ErrorContains(t, err, "must be a finite number", in)
	}
	_, err = ParseArgs("martingale", testOptions, true)
	assert.Error(t, err)
	_, err = ParseArgs("25000", testOptions, false)
	assert.Error(t, err)
}

func TestParseArgs_Errors(t *testing.T) {
	for _, in := range []string{"from=yesterday", "seg=dolphin", "color=red"} {
		_, err := ParseArgs(in, testOptions, false)
		assert.Error(t, err, in)
	}
}

func TestHandle_KPI(t *testing.T) {
	h, sender := newHandlers(t)
	h.HandleMessage(message("/kpi mood=greed"))

	msg, ok := sender.last(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Contains(t, msg.Text, "Showing 2 records")
	assert.Contains(t, msg.Text, "Total PnL: $150")
	assert.Contains(t, msg.Text, "Total Trades Executed: 50")
}

func TestHandle_FigureSendsPhoto(t *testing.T) {
	h, sender := newHandlers(t)
	h.HandleMessage(message("/winrate@dash_bot"))

	photo, ok := sender.last(t).(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Contains(t, photo.Caption, "median Win Rate")
	file, ok := photo.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.NotEmpty(t, file.Bytes)
}

func TestHandle_Simulate(t *testing.T) {
	h, sender := newHandlers(t)
	h.HandleMessage(message("/simulate 1000 antifear"))

	photo, ok := sender.last(t).(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Contains(t, photo.Caption, "Final Equity: $1,150.00 (+15.0% ROI)")
	assert.Contains(t, photo.Caption, "avoided 1 high-risk")
}

func TestHandle_BadArgsAndInsightDisabled(t *testing.T) {
	h, sender := newHandlers(t)
	h.HandleMessage(message("/overview seg=dolphin"))
	msg := sender.last(t).(tgbotapi.MessageConfig)
	assert.True(t, strings.HasPrefix(msg.Text, "no segment matches 'dolphin'"))

	h.HandleMessage(message("/insight"))
	msg = sender.last(t).(tgbotapi.MessageConfig)
	assert.Equal(t, "Insights are not enabled on this bot.", msg.Text)
}

func TestHandle_NonFiniteCapitalIsRejected(t *testing.T) {
	h, sender := newHandlers(t)
	require.NotPanics(t, func() { h.HandleMessage(message("/simulate nan antifear")) })
	msg, ok := sender.last(t).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "must be a finite number")
}

func TestHandle_IgnoresMessagesWithoutChat(t *testing.T) {
	h, sender := newHandlers(t)
	require.NotPanics(t, func() {
		h.HandleMessage(nil)
		h.HandleMessage(&tgbotapi.Message{Text: "/kpi"})
	})
	assert.Empty(t, sender.sent)
}

func TestHandle_IgnoresPlainText(t *testing.T) {
	h, sender := newHandlers(t)
	h.HandleMessage(message("hello there"))
	assert.Empty(t, sender.sent)
}

func TestHandlers_ServiceOptions(t *testing.T) {
	h, _ := newHandlers(t)
	opts, err := h.svc.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"The Snipers", "The Whales", "The Gamblers"}, opts.Archetypes)
}
