// Package dashboard assembles everything one page render needs from the
// current controls: the filtered view, its metric tiles, the figures and the
// simulator run. Every call recomputes from the cached dataset; nothing is
// remembered between interactions except the dataset and encoded images.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"sentimentDashboard/internal/analytics"
	"sentimentDashboard/internal/charts"
	"sentimentDashboard/internal/dataset"
)

var (
	ErrNegativeCapital = errors.New("starting capital must not be negative")
	ErrInvalidCapital  = errors.New("starting capital must be a finite number")
	ErrNoNarrator      = errors.New("insight narrator not configured")
)

// Narrator turns computed facts into a short written insight.
type Narrator interface {
	Explain(ctx context.Context, facts []string) (string, error)
}

// Settings are the constants the service draws with.
type Settings struct {
	DataPath       string
	Zones          charts.Zones
	AntiFearMin    float64
	DefaultCapital float64
	CapitalStep    float64
	HistogramTrim  float64
	HistogramBins  int
	Size           charts.Size
}

// Controls are the user's inputs. A zero Start or End means the dataset
// bound. A nil label slice selects every value; an empty non-nil slice
// selects none. A nil Capital means the configured default.
type Controls struct {
	Start      time.Time
	End        time.Time
	Archetypes []string
	Sentiments []string
	Capital    *float64
	Strategy   analytics.Strategy
}

// Resolved are the controls after defaults are filled in.
type Resolved struct {
	Criteria analytics.Criteria `json:"criteria"`
	Capital  float64            `json:"capital"`
	Strategy analytics.Strategy `json:"strategy"`
}

func (r Resolved) key() string {
	return fmt.Sprintf("%s|%s|%q|%q|%.2f|%s",
		r.Criteria.Start.Format("2006-01-02"), r.Criteria.End.Format("2006-01-02"),
		r.Criteria.Archetypes, r.Criteria.Sentiments,
		r.Capital, r.Strategy)
}

type StrategyOption struct {
	ID    analytics.Strategy `json:"id"`
	Label string             `json:"label"`
}

// Options describe what the controls may be set to.
type Options struct {
	MinDate        time.Time        `json:"min_date"`
	MaxDate        time.Time        `json:"max_date"`
	Archetypes     []string         `json:"archetypes"`
	Sentiments     []string         `json:"sentiments"`
	DefaultCapital float64          `json:"default_capital"`
	CapitalStep    float64          `json:"capital_step"`
	AntiFearMin    float64          `json:"anti_fear_min"`
	Strategies     []StrategyOption `json:"strategies"`
	Source         string           `json:"source"`
	Synthetic      bool             `json:"synthetic"`
	Notices        []string         `json:"notices"`
}

// Tile is one headline metric.
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Delta string `json:"delta,omitempty"`
}

// Insight is a fixed interpretation shown under a chart.
type Insight struct {
	Figure charts.Kind `json:"figure"`
	Text   string      `json:"text"`
}

var staticInsights = []Insight{
	{Figure: charts.KindWinRate, Text: "Notice the median Win Rate is typically higher in Greed regimes, confirming momentum efficiency."},
	{Figure: charts.KindPnL, Text: "Fear regimes often show 'fatter tails' on the left (losses), indicating higher blowout risk."},
}

// View is everything one render shows.
type View struct {
	Controls  Resolved `json:"controls"`
	Source    string   `json:"source"`
	Synthetic bool     `json:"synthetic"`
	Notices   []string `json:"notices"`
	Status    string   `json:"status"`

	KPIs  analytics.KPIs         `json:"kpis"`
	Tiles []Tile                 `json:"tiles"`
	Daily []analytics.DailyPoint `json:"daily"`

	Overview charts.OverviewFigure  `json:"overview"`
	WinRate  charts.BoxFigure       `json:"winrate"`
	PnL      charts.HistogramFigure `json:"pnl"`
	Insights []Insight              `json:"insights"`

	Simulation     analytics.Simulation `json:"simulation"`
	SimulatorTiles []Tile               `json:"simulator_tiles"`
	Equity         charts.EquityFigure  `json:"equity"`
	AntiFearNotice string               `json:"anti_fear_notice,omitempty"`

	Records dataset.Dataset `json:"-"`
}

// Figure returns the figure of the given kind.
func (v *View) Figure(kind charts.Kind) (charts.Figure, error) {
	switch kind {
	case charts.KindOverview:
		return v.Overview, nil
	case charts.KindWinRate:
		return v.WinRate, nil
	case charts.KindPnL:
		return v.PnL, nil
	case charts.KindEquity:
		return v.Equity, nil
	}
	return nil, fmt.Errorf("%w: %q", charts.ErrUnknownFigure, kind)
}

// Service builds views over the dataset at Settings.DataPath.
type Service struct {
	cfg      Settings
	loader   *dataset.Loader
	sim      analytics.Simulator
	images   *charts.Cache
	narrator Narrator
}

// New wires a service. narrator may be nil.
func New(cfg Settings, loader *dataset.Loader, images *charts.Cache, narrator Narrator) *Service {
	if cfg.HistogramBins <= 0 {
		cfg.HistogramBins = charts.DefaultHistogramBins
	}
	if cfg.HistogramTrim <= 0 {
		cfg.HistogramTrim = charts.DefaultHistogramTrim
	}
	if images == nil {
		images = charts.NewCache(charts.DefaultCacheTTL)
	}
	return &Service{
		cfg:      cfg,
		loader:   loader,
		sim:      analytics.NewSimulator(cfg.AntiFearMin),
		images:   images,
		narrator: narrator,
	}
}

// HasNarrator reports whether Insight can produce text.
func (s *Service) HasNarrator() bool { return s.narrator != nil }

func (s *Service) load(ctx context.Context) (*dataset.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.loader.Load(s.cfg.DataPath)
}

// Options reports the selectable ranges of the loaded dataset.
func (s *Service) Options(ctx context.Context) (*Options, error) {
	res, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	min, max, _ := res.Dataset.Bounds()
	opts := &Options{
		MinDate:        min,
		MaxDate:        max,
		Archetypes:     res.Dataset.Archetypes(),
		Sentiments:     res.Dataset.SentimentCategories(),
		DefaultCapital: s.cfg.DefaultCapital,
		CapitalStep:    s.cfg.CapitalStep,
		AntiFearMin:    s.cfg.AntiFearMin,
		Source:         res.Source,
		Synthetic:      res.Synthetic,
		Notices:        append([]string{}, res.Warnings...),
	}
	for _, st := range analytics.Strategies {
		opts.Strategies = append(opts.Strategies, StrategyOption{ID: st, Label: st.Label()})
	}
	return opts, nil
}

// Resolve fills defaults from the dataset into c.
func (s *Service) Resolve(ds dataset.Dataset, c Controls) (Resolved, error) {
	def := analytics.DefaultCriteria(ds)
	r := Resolved{Criteria: def, Capital: s.cfg.DefaultCapital, Strategy: analytics.BuyHold}
	if !c.Start.IsZero() {
		r.Criteria.Start = dataset.Day(c.Start)
	}
	if !c.End.IsZero() {
		r.Criteria.End = dataset.Day(c.End)
	}
	if c.Archetypes != nil {
		r.Criteria.Archetypes = c.Archetypes
	}
	if c.Sentiments != nil {
		r.Criteria.Sentiments = c.Sentiments
	}
	if c.Capital != nil {
		if math.IsNaN(*c.Capital) || math.IsInf(*c.Capital, 0) {
			return r, fmt.Errorf("%w: %v", ErrInvalidCapital, *c.Capital)
		}
		if *c.Capital < 0 {
			return r, fmt.Errorf("%w: %v", ErrNegativeCapital, *c.Capital)
		}
		r.Capital = *c.Capital
	}
	if c.Strategy != "" {
		st, err := analytics.ParseStrategy(string(c.Strategy))
		if err != nil {
			return r, err
		}
		r.Strategy = st
	}
	return r, nil
}

// Build recomputes the whole page for c.
func (s *Service) Build(ctx context.Context, c Controls) (*View, error) {
	res, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rc, err := s.Resolve(res.Dataset, c)
	if err != nil {
		return nil, err
	}

	view := analytics.Apply(res.Dataset, rc.Criteria)
	kpis := analytics.ComputeKPIs(view)
	sim := s.sim.Simulate(res.Dataset, rc.Capital, rc.Strategy)

	v := &View{
		Controls:  rc,
		Source:    res.Source,
		Synthetic: res.Synthetic,
		Notices:   append([]string{}, res.Warnings...),
		Status:    "Showing " + Int(len(view)) + " records",
		KPIs:      kpis,
		Tiles: []Tile{
			{Label: "Total PnL", Value: Currency(kpis.TotalPnL)},
			{Label: "Avg Win Rate", Value: Percent(kpis.AvgWinRate)},
			{Label: "Total Trades Executed", Value: Int(kpis.TotalTrades)},
		},
		Daily:      analytics.Daily(view),
		Overview:   charts.Overview(view, s.cfg.Zones),
		WinRate:    charts.WinRateBySentiment(view),
		PnL:        charts.PnLHistogram(view, s.cfg.HistogramTrim, s.cfg.HistogramBins),
		Insights:   staticInsights,
		Simulation: sim,
		SimulatorTiles: []Tile{
			{Label: "Final Equity", Value: CurrencyCents(sim.FinalEquity), Delta: ROIDelta(sim.ROI, sim.ROIDefined)},
			{Label: "Max Drawdown", Value: fmt.Sprintf("%.2f%%", sim.MaxDrawdown)},
			{Label: "Trading Days", Value: Int(sim.TradingDays)},
		},
		Equity:  charts.EquityCurve(sim),
		Records: view,
	}
	if rc.Strategy == analytics.AntiFear {
		v.AntiFearNotice = fmt.Sprintf("By filtering out Extreme Fear days, this strategy avoided %s high-risk trading days.", Int(sim.Excluded))
	}
	log.Debug().Str("controls", rc.key()).Int("records", len(view)).Msg("dashboard: view built")
	return v, nil
}

// Image renders one figure of the view for c, reusing a recent rendering
// of the same controls when available.
func (s *Service) Image(ctx context.Context, c Controls, kind charts.Kind, format charts.Format) ([]byte, error) {
	v, err := s.Build(ctx, c)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s|%s|%s", v.Controls.key(), kind, format)
	if img, ok := s.images.Get(key); ok {
		return img, nil
	}
	fig, err := v.Figure(kind)
	if err != nil {
		return nil, err
	}
	img, err := charts.Encode(fig, format, s.cfg.Size)
	if err != nil {
		log.Error().Err(err).Str("figure", string(kind)).Msg("dashboard: render failed")
		return nil, err
	}
	s.images.Set(key, img)
	return img, nil
}

// Facts lists the computed numbers a narrator may talk about.
func (s *Service) Facts(v *View) []string {
	c := v.Controls.Criteria
	facts := []string{
		fmt.Sprintf("Date range: %s to %s", c.Start.Format("2006-01-02"), c.End.Format("2006-01-02")),
		"Trader segments: " + strings.Join(c.Archetypes, ", "),
		"Sentiment regimes: " + strings.Join(c.Sentiments, ", "),
		fmt.Sprintf("Records in view: %d", v.KPIs.Records),
	}
	for _, t := range v.Tiles {
		facts = append(facts, t.Label+": "+t.Value)
	}
	for _, b := range v.WinRate.Boxes {
		facts = append(facts, fmt.Sprintf("%s win rate: median %.1f%%, IQR %.1f%%..%.1f%%, %d outlier days",
			b.Group, b.Median*100, b.Q1*100, b.Q3*100, len(b.Outliers)))
	}
	for _, b := range v.PnL.Marginal {
		facts = append(facts, fmt.Sprintf("%s daily PnL (trimmed): median %s, mean %s, n=%d",
			b.Group, Currency(b.Median), Currency(b.Mean), b.N))
	}
	if corr, ok := volumeSentimentCorrelation(v.Daily); ok {
		facts = append(facts, fmt.Sprintf("Correlation of daily volume with sentiment: %.2f", corr))
	}
	sim := v.Simulation
	facts = append(facts,
		fmt.Sprintf("Simulator (%s, all data): start %s, final %s, %s, max drawdown %.2f%%",
			sim.Strategy.Label(), CurrencyCents(sim.StartingCapital), CurrencyCents(sim.FinalEquity),
			ROIDelta(sim.ROI, sim.ROIDefined), sim.MaxDrawdown))
	if sim.Strategy == analytics.AntiFear {
		facts = append(facts, fmt.Sprintf("Days skipped for sentiment below %.0f: %d", s.cfg.AntiFearMin, sim.Excluded))
	}
	return facts
}

// Insight asks the narrator to interpret the view for c.
func (s *Service) Insight(ctx context.Context, c Controls) (string, error) {
	if s.narrator == nil {
		return "", ErrNoNarrator
	}
	v, err := s.Build(ctx, c)
	if err != nil {
		return "", err
	}
	if v.KPIs.Records == 0 {
		return "No records match the current filters, so there is nothing to interpret.", nil
	}
	text, err := s.narrator.Explain(ctx, s.Facts(v))
	if err != nil {
		return "", fmt.Errorf("insight: %w", err)
	}
	return text, nil
}

// Reset drops the cached dataset and every cached image.
func (s *Service) Reset() {
	s.loader.Reset()
	s.images.Clear()
}

func volumeSentimentCorrelation(daily []analytics.DailyPoint) (float64, bool) {
	if len(daily) < 3 {
		return 0, false
	}
	vol := make([]float64, len(daily))
	sent := make([]float64, len(daily))
	for i, p := range daily {
		vol[i] = float64(p.TradeCount)
		sent[i] = p.MeanSentiment
	}
	if stat.Variance(vol, nil) == 0 || stat.Variance(sent, nil) == 0 {
		return 0, false
	}
	return stat.Correlation(vol, sent, nil), true
}
