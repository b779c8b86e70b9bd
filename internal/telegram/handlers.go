package telegram

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"sentimentDashboard/internal/analytics"
	"sentimentDashboard/internal/charts"
	"sentimentDashboard/internal/dashboard"
)

var (
	// /help or /start
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
	// /kpi [filters]
	reKPI = regexp.MustCompile(`^/kpi(?:@[\w_]+)?(?:\s+(.*))?$`)
	// /overview|/winrate|/pnl [filters]
	reFigure = regexp.MustCompile(`^/(overview|winrate|pnl)(?:@[\w_]+)?(?:\s+(.*))?$`)
	// /simulate [capital] [buyhold|antifear]
	reSimulate = regexp.MustCompile(`^/simulate(?:@[\w_]+)?(?:\s+(.*))?$`)
	// /insight [filters]
	reInsight = regexp.MustCompile(`^/insight(?:@[\w_]+)?(?:\s+(.*))?$`)
)

// Sender is the part of the bot API the handlers use.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Handlers struct {
	api Sender
	svc *dashboard.Service
}

func NewHandlers(api Sender, svc *dashboard.Service) *Handlers {
	return &Handlers{api: api, svc: svc}
}

// HandleMessage answers one command. Every command is computed from its
// own arguments; nothing is remembered per chat.
func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	if m == nil || m.Chat == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Int64("chat_id", m.Chat.ID).Str("text", m.Text).Msg("telegram: handler panicked")
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	txt := strings.TrimSpace(m.Text)
	chatID := m.Chat.ID
	switch {
	case reHelp.MatchString(txt):
		h.handleHelp(chatID)

	case reKPI.MatchString(txt):
		g := reKPI.FindStringSubmatch(txt)
		h.handleKPI(ctx, chatID, g[1])

	case reFigure.MatchString(txt):
		g := reFigure.FindStringSubmatch(txt)
		h.handleFigure(ctx, chatID, charts.Kind(g[1]), g[2])

	case reSimulate.MatchString(txt):
		g := reSimulate.FindStringSubmatch(txt)
		h.handleSimulate(ctx, chatID, g[1])

	case reInsight.MatchString(txt):
		g := reInsight.FindStringSubmatch(txt)
		h.handleInsight(ctx, chatID, g[1])
	}
}

func (h *Handlers) controls(ctx context.Context, chatID int64, args string, simulator bool) (dashboard.Controls, bool) {
	opts, err := h.svc.Options(ctx)
	if err != nil {
		h.reply(chatID, "Dataset unavailable: "+err.Error())
		return dashboard.Controls{}, false
	}
	c, err := ParseArgs(args, opts, simulator)
	if err != nil {
		h.reply(chatID, err.Error()+"\nSee /help for the argument format.")
		return c, false
	}
	return c, true
}

func (h *Handlers) handleKPI(ctx context.Context, chatID int64, args string) {
	c, ok := h.controls(ctx, chatID, args, false)
	if !ok {
		return
	}
	v, err := h.svc.Build(ctx, c)
	if err != nil {
		h.reply(chatID, "KPI failed: "+err.Error())
		return
	}
	var b strings.Builder
	for _, n := range v.Notices {
		b.WriteString("⚠️ " + n + "\n")
	}
	cr := v.Controls.Criteria
	fmt.Fprintf(&b, "%s → %s\n", cr.Start.Format("2006-01-02"), cr.End.Format("2006-01-02"))
	b.WriteString(v.Status + "\n\n")
	for _, t := range v.Tiles {
		fmt.Fprintf(&b, "%s: %s\n", t.Label, t.Value)
	}
	h.reply(chatID, strings.TrimSpace(b.String()))
}

func (h *Handlers) handleFigure(ctx context.Context, chatID int64, kind charts.Kind, args string) {
	c, ok := h.controls(ctx, chatID, args, false)
	if !ok {
		return
	}
	h.sendFigure(ctx, chatID, c, kind)
}

func (h *Handlers) handleSimulate(ctx context.Context, chatID int64, args string) {
	c, ok := h.controls(ctx, chatID, args, true)
	if !ok {
		return
	}
	h.sendFigure(ctx, chatID, c, charts.KindEquity)
}

func (h *Handlers) sendFigure(ctx context.Context, chatID int64, c dashboard.Controls, kind charts.Kind) {
	v, err := h.svc.Build(ctx, c)
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	img, err := h.svc.Image(ctx, c, kind, charts.PNG)
	if err != nil {
		h.reply(chatID, "Chart failed: "+err.Error())
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: string(kind) + ".png", Bytes: img})
	photo.Caption = caption(v, kind)
	if _, err := h.api.Send(photo); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram: send photo failed")
	}
}

func caption(v *dashboard.View, kind charts.Kind) string {
	parts := []string{v.Status}
	switch kind {
	case charts.KindWinRate, charts.KindPnL:
		for _, in := range v.Insights {
			if in.Figure == kind {
				parts = append(parts, "💡 "+in.Text)
			}
		}
	case charts.KindEquity:
		t := v.SimulatorTiles[0]
		parts = []string{v.Controls.Strategy.Label(), t.Label + ": " + t.Value + " (" + t.Delta + ")"}
		if v.Controls.Strategy == analytics.AntiFear {
			parts = append(parts, v.AntiFearNotice)
		}
	}
	for _, n := range v.Notices {
		parts = append(parts, "⚠️ "+n)
	}
	return strings.Join(parts, "\n")
}

func (h *Handlers) handleInsight(ctx context.Context, chatID int64, args string) {
	c, ok := h.controls(ctx, chatID, args, false)
	if !ok {
		return
	}
	out, err := h.svc.Insight(ctx, c)
	if errors.Is(err, dashboard.ErrNoNarrator) {
		h.reply(chatID, "Insights are not enabled on this bot.")
		return
	}
	if err != nil {
		h.reply(chatID, "Insight failed: "+err.Error())
		return
	}
	msg := tgbotapi.NewMessage(chatID, out)
	msg.ParseMode = "Markdown"
	if _, err := h.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram: send insight failed")
	}
}

func (h *Handlers) handleHelp(chatID int64) {
	help := "Commands\n\n" +
		"- /kpi [filters] - Total PnL, average win rate and trades for the selection\n" +
		"- /overview [filters] - Daily volume vs sentiment with Fear/Greed zones\n" +
		"- /winrate [filters] - Win rate distribution by sentiment\n" +
		"- /pnl [filters] - Daily PnL distribution (trimmed)\n" +
		"- /simulate [capital] [buyhold|antifear] - Equity curve over the full history\n" +
		"- /insight [filters] - Written interpretation of the selection\n" +
		"\nFilters: from=YYYY-MM-DD to=YYYY-MM-DD seg=snip,whale mood=fear,greed (mood=none selects nothing)."
	h.reply(chatID, help)
}

func (h *Handlers) reply(chatID int64, text string) {
	if _, err := h.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("telegram: reply failed")
	}
}
