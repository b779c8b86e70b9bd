package dataset

import (
	"fmt"
	"strings"

	"sentimentDashboard/internal/storage"
)

func readSQLite(path string) (Dataset, error) {
	db, err := storage.OpenReadOnly(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	rows, err := storage.NewStore(db).FetchRows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ds := make(Dataset, 0, len(rows))
	for i, row := range rows {
		date, err := ParseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, i+1, err)
		}
		ds = append(ds, Record{
			Date:              date,
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

// writeSQLite creates path (which must not exist yet) with one
// dashboard_data table holding ds.
func writeSQLite(path string, ds Dataset) error {
	db, err := storage.OpenSQLite("file:" + path + "?mode=rwc")
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()
	if err := storage.InitSchema(db); err != nil {
		return fmt.Errorf("schema %s: %w", path, err)
	}
	store := storage.NewStore(db)
	for i, r := range ds {
		err := store.InsertRow(storage.Row{
			Date:              r.Date.Format("2006-01-02"),
			DailyPnL:          r.DailyPnL,
			WinRate:           r.WinRate,
			TradeCount:        int64(r.TradeCount),
			SentimentValue:    r.SentimentValue,
			SentimentCategory: r.SentimentCategory,
			Archetype:         r.Archetype,
		})
		if err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	return nil
}
