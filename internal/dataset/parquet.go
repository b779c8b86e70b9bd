package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
)

// parquetRow is the on-disk schema for Parquet sources.
type parquetRow struct {
	Date              int64   `parquet:"date,timestamp(millisecond)"` // Unix ms
	DailyPnL          float64 `parquet:"daily_pnl"`
	WinRate           float64 `parquet:"win_rate"`
	TradeCount        int64   `parquet:"trade_count"`
	SentimentValue    float64 `parquet:"sentiment_value"`
	SentimentCategory string  `parquet:"sentiment_category"`
	Archetype         string  `parquet:"archetype"`
}

func readParquet(path string) (Dataset, error) {
	rows, err := parquet.ReadFile[parquetRow](path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ds := make(Dataset, 0, len(rows))
	for _, row := range rows {
		ds = append(ds, Record{
			Date:              Day(time.UnixMilli(row.Date).UTC()),
			DailyPnL:          row.DailyPnL,
			WinRate:           row.WinRate,
			TradeCount:        int(row.TradeCount),
			SentimentValue:    row.SentimentValue,
			SentimentCategory: strings.TrimSpace(row.SentimentCategory),
			Archetype:         strings.TrimSpace(row.Archetype),
		})
	}
	if err := validateAll(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// WriteParquet stores a dataset in the layout readParquet expects.
func WriteParquet(path string, ds Dataset) error {
	rows := make([]parquetRow, 0, len(ds))
	for _, r := range ds {
		rows = append(rows, parquetRow{
			Date:              r.Date.UnixMilli(),
			DailyPnL:          r.DailyPnL,
			WinRate:           r.WinRate,
			TradeCount:        int64(r.TradeCount),
			SentimentValue:    r.SentimentValue,
			SentimentCategory: r.SentimentCategory,
			Archetype:         r.Archetype,
		})
	}
	return parquet.WriteFile(path, rows)
}
