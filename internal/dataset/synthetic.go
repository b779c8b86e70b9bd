package dataset

import (
	"math/rand/v2"
	"time"
)

var (
	syntheticCategories = []string{"Fear", "Greed"}
	syntheticArchetypes = []string{"The Snipers", "The Gamblers", "The Whales"}
)

// SyntheticEpoch is the first date of a generated dataset.
var SyntheticEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultSyntheticRows is the size of a generated dataset.
const DefaultSyntheticRows = 100

// Generator produces placeholder data so the dashboard still renders
// without a source file. Seed 0 draws a fresh seed per generator.
type Generator struct {
	Rows  int
	Start time.Time
	Seed  uint64
}

// Generate returns Rows records on a contiguous daily calendar from Start.
func (g Generator) Generate() Dataset {
	n := g.Rows
	if n <= 0 {
		n = DefaultSyntheticRows
	}
	start := g.Start
	if start.IsZero() {
		start = SyntheticEpoch
	}
	start = Day(start)

	rng := g.rand()
	ds := make(Dataset, n)
	for i := range ds {
		ds[i] = Record{
			Date:              start.AddDate(0, 0, i),
			DailyPnL:          100 + 500*rng.NormFloat64(),
			WinRate:           0.3 + 0.3*rng.Float64(),
			TradeCount:        10 + rng.IntN(90),
			SentimentValue:    float64(10 + rng.IntN(80)),
			SentimentCategory: syntheticCategories[rng.IntN(len(syntheticCategories))],
			Archetype:         syntheticArchetypes[rng.IntN(len(syntheticArchetypes))],
		}
	}
	return ds
}

func (g Generator) rand() *rand.Rand {
	if g.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(g.Seed, g.Seed^0x9e3779b97f4a7c15))
}
