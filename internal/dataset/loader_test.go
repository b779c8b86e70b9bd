package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentimentDashboard/internal/storage"
)

const sampleCSV = `date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype
2024-02-01,120.5,0.55,40,62,Greed,The Whales
2024-02-01,-30,0.41,12,62,Greed,The Snipers
2024-02-02 00:00:00,75,0.48,33,18,Fear,The Gamblers
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "dashboard_data.csv", sampleCSV)

	res, err := NewLoader(Generator{Seed: 1}).Load(path)
	require.NoError(t, err)
	assert.False(t, res.Synthetic)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Dataset, 3)

	first := res.Dataset[0]
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 120.5, first.DailyPnL)
	assert.Equal(t, 40, first.TradeCount)
	assert.Equal(t, "The Whales", first.Archetype)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), res.Dataset[2].Date)
}

func TestLoad_MalformedIsFatal(t *testing.T) {
	cases := map[string]string{
		"bad number": "date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype\n" +
			"2024-02-01,abc,0.5,10,50,Fear,The Whales\n",
		"bad date": "date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype\n" +
			"yesterday,1,0.5,10,50,Fear,The Whales\n",
		"missing column": "date,daily_pnl,win_rate,trade_count,sentiment_value,archetype\n" +
			"2024-02-01,1,0.5,10,50,The Whales\n",
		"blank cells": "date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype\n" +
			"2024-01-01,,0.5,,,Fear,The Whales\n",
		"win rate out of range": "date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype\n" +
			"2024-02-01,1,1.5,10,50,Fear,The Whales\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "data.csv", body)
			res, err := NewLoader(Generator{Seed: 1}).Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, res)
		})
	}
}

func TestLoad_MissingFileFallsBackToSynthetic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard_data.csv")

	res, err := NewLoader(Generator{Seed: 7}).Load(path)
	require.NoError(t, err)
	assert.True(t, res.Synthetic)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "dashboard_data.csv")

	require.Len(t, res.Dataset, 100)
	for i, r := range res.Dataset {
		assert.Equal(t, SyntheticEpoch.AddDate(0, 0, i), r.Date, "row %d", i)
	}
}

func TestLoad_CachesPerPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.csv")
	l := NewLoader(Generator{})

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)

	l.Reset()
	third, err := l.Load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestLoad_Parquet(t *testing.T) {
	want, err := DecodeCSV([]byte(sampleCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dashboard_data.parquet")
	require.NoError(t, WriteParquet(path, want))

	res, err := NewLoader(Generator{}).Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, res.Dataset)
}

func TestLoad_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard_data.db")
	db, err := storage.OpenSQLite("file:" + path)
	require.NoError(t, err)
	require.NoError(t, storage.InitSchema(db))
	store := storage.NewStore(db)
	require.NoError(t, store.InsertRow(storage.Row{Date: "2024-03-01", DailyPnL: 10, WinRate: 0.5, TradeCount: 4, SentimentValue: 30, SentimentCategory: "Fear", Archetype: "The Whales"}))
	require.NoError(t, store.InsertRow(storage.Row{Date: "2024-03-02", DailyPnL: -5, WinRate: 0.4, TradeCount: 6, SentimentValue: 80, SentimentCategory: "Greed", Archetype: "The Snipers"}))
	require.NoError(t, db.Close())

	res, err := NewLoader(Generator{}).Load(path)
	require.NoError(t, err)
	require.Len(t, res.Dataset, 2)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), res.Dataset[1].Date)
	assert.Equal(t, 6, res.Dataset[1].TradeCount)
}

func TestGenerator_Distributions(t *testing.T) {
	ds := Generator{Rows: 500, Seed: 42}.Generate()
	require.Len(t, ds, 500)
	for _, r := range ds {
		assert.GreaterOrEqual(t, r.WinRate, 0.3)
		assert.Less(t, r.WinRate, 0.6)
		assert.GreaterOrEqual(t, r.TradeCount, 10)
		assert.Less(t, r.TradeCount, 100)
		assert.GreaterOrEqual(t, r.SentimentValue, 10.0)
		assert.Less(t, r.SentimentValue, 90.0)
		assert.Contains(t, syntheticCategories, r.SentimentCategory)
		assert.Contains(t, syntheticArchetypes, r.Archetype)
	}
	assert.Equal(t, ds, Generator{Rows: 500, Seed: 42}.Generate(), "same seed, same data")
}

func TestDataset_BoundsAndDistinct(t *testing.T) {
	ds, err := DecodeCSV([]byte(sampleCSV))
	require.NoError(t, err)

	min, max, ok := ds.Bounds()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), min)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), max)
	assert.Equal(t, []string{"The Whales", "The Snipers", "The Gamblers"}, ds.Archetypes())
	assert.Equal(t, []string{"Greed", "Fear"}, ds.SentimentCategories())

	_, _, ok = Dataset{}.Bounds()
	assert.False(t, ok)
}

func TestWriteFile_RoundTripsEveryFormat(t *testing.T) {
	want := Generator{Rows: 12, Seed: 9}.Generate()
	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.parquet", "out.sqlite"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, WriteFile(path, want))

			res, err := NewLoader(Generator{}).Load(path)
			require.NoError(t, err)
			require.Len(t, res.Dataset, len(want))
			for i := range want {
				assert.Equal(t, want[i].Date, res.Dataset[i].Date)
				assert.InDelta(t, want[i].DailyPnL, res.Dataset[i].DailyPnL, 1e-6)
				assert.Equal(t, want[i].TradeCount, res.Dataset[i].TradeCount)
				assert.Equal(t, want[i].Archetype, res.Dataset[i].Archetype)
			}

			assert.ErrorIs(t, WriteFile(path, want), ErrExists)
		})
	}
}

func TestDecodeCSV_BlankCellNamesColumn(t *testing.T) {
	_, err := DecodeCSV([]byte("date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype\n" +
		"2024-01-01,5,0.5,3,40,Fear,The Whales\n" +
		"2024-01-02,7,0.5,,40,Fear,The Whales\n"))
	require.ErrorIs(t, err, ErrMalformed)
	assert.ErrorContains(t, err, "row 2: trade_count is blank")
}

func TestDecodeCSV_ByteOrderMark(t *testing.T) {
	ds, err := DecodeCSV([]byte("\uFEFF" + sampleCSV))
	require.NoError(t, err)
	assert.Len(t, ds, 3)
}
