package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"sentimentDashboard/internal/charts"
	"sentimentDashboard/internal/config"
	"sentimentDashboard/internal/dashboard"
	"sentimentDashboard/internal/dataset"
	"sentimentDashboard/internal/logging"
	"sentimentDashboard/internal/openai"
	"sentimentDashboard/internal/server"
	"sentimentDashboard/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	s := cfg.Settings

	start, _ := s.SyntheticStart()
	loader := dataset.NewLoader(dataset.Generator{Rows: s.Synthetic.Rows, Start: start, Seed: s.Synthetic.Seed})

	var narrator dashboard.Narrator
	if cfg.OpenAIKey != "" {
		narrator = openai.NewAnalyst(cfg.OpenAIKey)
		log.Info().Msg("openai: insight narrator enabled")
	}

	svc := dashboard.New(dashboard.Settings{
		DataPath:       cfg.DataPath,
		Zones:          charts.Zones{FearMax: s.Sentiment.FearZoneMax, GreedMin: s.Sentiment.GreedZoneMin},
		AntiFearMin:    s.Simulator.AntiFearMin,
		DefaultCapital: s.Simulator.DefaultCapital,
		CapitalStep:    s.Simulator.CapitalStep,
		HistogramTrim:  s.Histogram.Trim,
		HistogramBins:  s.Histogram.Bins,
		Size:           s.Charts.Size,
	}, loader, charts.NewCache(s.Charts.CacheTTL), narrator)

	// Warm the dataset cache so a malformed source fails at startup.
	opts, err := svc.Options(context.Background())
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DataPath).Msg("dataset")
	}
	log.Info().
		Str("source", opts.Source).
		Bool("synthetic", opts.Synthetic).
		Strs("archetypes", opts.Archetypes).
		Msg("dataset: ready")

	var webhook http.HandlerFunc
	if cfg.BotEnabled() {
		tg, err := telegram.NewBot(cfg.TelegramToken, cfg.WebhookPublicURL, svc)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram")
		}
		webhook = tg.WebhookHandler
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := server.NewRouter(svc, webhook)
	if err := server.ListenAndServe(ctx, ":"+cfg.Port, router); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
