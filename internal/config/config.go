package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"sentimentDashboard/internal/charts"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the process configuration: environment first, then the YAML
// settings file it points at.
type Config struct {
	Port             string
	DataPath         string
	SettingsPath     string
	LogLevel         string
	LogFormat        string
	TelegramToken    string
	WebhookPublicURL string
	OpenAIKey        string

	Settings Settings
}

// Settings are the tunable dashboard constants. They are independent of
// each other; Validate only rejects values that cannot be drawn.
type Settings struct {
	Sentiment SentimentSettings `yaml:"sentiment"`
	Simulator SimulatorSettings `yaml:"simulator"`
	Histogram HistogramSettings `yaml:"histogram"`
	Synthetic SyntheticSettings `yaml:"synthetic"`
	Charts    ChartSettings     `yaml:"charts"`
}

type SentimentSettings struct {
	FearZoneMax  float64 `yaml:"fear_zone_max"`
	GreedZoneMin float64 `yaml:"greed_zone_min"`
}

type SimulatorSettings struct {
	AntiFearMin    float64 `yaml:"anti_fear_min"`
	DefaultCapital float64 `yaml:"default_capital"`
	CapitalStep    float64 `yaml:"capital_step"`
}

type HistogramSettings struct {
	Trim float64 `yaml:"trim"`
	Bins int     `yaml:"bins"`
}

type SyntheticSettings struct {
	Rows  int    `yaml:"rows"`
	Start string `yaml:"start"` // YYYY-MM-DD
	Seed  uint64 `yaml:"seed"`  // 0 picks a random seed per load
}

type ChartSettings struct {
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	charts.Size `yaml:",inline"`
}

// DefaultSettings mirrors the values the dashboard was designed around.
func DefaultSettings() Settings {
	return Settings{
		Sentiment: SentimentSettings{FearZoneMax: 25, GreedZoneMin: 75},
		Simulator: SimulatorSettings{AntiFearMin: 25, DefaultCapital: 10000, CapitalStep: 1000},
		Histogram: HistogramSettings{Trim: charts.DefaultHistogramTrim, Bins: charts.DefaultHistogramBins},
		Synthetic: SyntheticSettings{Rows: 100, Start: "2024-01-01"},
		Charts:    ChartSettings{CacheTTL: charts.DefaultCacheTTL, Size: charts.DefaultSize},
	}
}

// SyntheticStart parses Synthetic.Start.
func (s Settings) SyntheticStart() (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s.Synthetic.Start))
}

// Validate rejects settings no component can work with.
func (s Settings) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	fear, greed := s.Sentiment.FearZoneMax, s.Sentiment.GreedZoneMin
	check(fear >= 0 && fear <= 100, "sentiment.fear_zone_max %v outside 0..100", fear)
	check(greed >= 0 && greed <= 100, "sentiment.greed_zone_min %v outside 0..100", greed)
	check(fear <= greed, "sentiment.fear_zone_max %v above greed_zone_min %v", fear, greed)
	check(s.Simulator.AntiFearMin >= 0 && s.Simulator.AntiFearMin <= 100,
		"simulator.anti_fear_min %v outside 0..100", s.Simulator.AntiFearMin)
	check(s.Simulator.DefaultCapital >= 0, "simulator.default_capital must not be negative")
	check(s.Simulator.CapitalStep > 0, "simulator.capital_step must be positive")
	check(s.Histogram.Trim > 0, "histogram.trim must be positive")
	check(s.Histogram.Bins > 0, "histogram.bins must be positive")
	check(s.Synthetic.Rows > 0, "synthetic.rows must be positive")
	if _, err := s.SyntheticStart(); err != nil {
		errs = append(errs, fmt.Errorf("synthetic.start: %w", err))
	}
	check(s.Charts.CacheTTL > 0, "charts.cache_ttl must be positive")
	check(s.Charts.Width > 0 && s.Charts.Height > 0, "charts.width and charts.height must be positive")

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// LoadSettings reads the YAML file on top of the defaults. A missing file
// yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present), the environment and the settings file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:             envOr("PORT", "9095"),
		DataPath:         envOr("DATA_PATH", "dashboard_data.csv"),
		SettingsPath:     envOr("DASHBOARD_CONFIG", "dashboard.yaml"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFormat:        envOr("LOG_FORMAT", "json"),
		TelegramToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookPublicURL: os.Getenv("WEBHOOK_PUBLIC_URL"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
	}
	if cfg.TelegramToken != "" && cfg.WebhookPublicURL == "" {
		return cfg, fmt.Errorf("%w: missing env WEBHOOK_PUBLIC_URL (required with TELEGRAM_BOT_TOKEN)", ErrInvalid)
	}

	s, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return cfg, err
	}
	cfg.Settings = s
	return cfg, nil
}

// BotEnabled reports whether the Telegram host should start.
func (c Config) BotEnabled() bool { return c.TelegramToken != "" }
