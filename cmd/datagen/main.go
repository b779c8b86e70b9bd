// One-shot tool: write a synthetic dashboard dataset to a file the
// dashboard can load. The format follows the extension (.csv, .parquet,
// .db/.sqlite/.sqlite3).
//
// Usage:
//
//	go run ./cmd/datagen -out dashboard_data.parquet [-rows 365] [-seed 7] [-start 2024-01-01]
package main

import (
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"sentimentDashboard/internal/dataset"
	"sentimentDashboard/internal/logging"
)

func main() {
	out := flag.String("out", "dashboard_data.csv", "output file")
	rows := flag.Int("rows", dataset.DefaultSyntheticRows, "number of daily rows")
	seed := flag.Uint64("seed", 0, "random seed (0 = random)")
	start := flag.String("start", dataset.SyntheticEpoch.Format("2006-01-02"), "first date")
	flag.Parse()

	logging.Setup("info", "console")

	from, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatal().Err(err).Str("start", *start).Msg("invalid start date")
	}
	ds := dataset.Generator{Rows: *rows, Start: from, Seed: *seed}.Generate()
	if err := dataset.WriteFile(*out, ds); err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("write failed")
	}
	log.Info().Str("out", *out).Int("rows", len(ds)).Msg("dataset written")
}
