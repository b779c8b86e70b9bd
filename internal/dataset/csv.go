package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Columns is the required header of every tabular source.
var Columns = []string{
	"date",
	"daily_pnl",
	"win_rate",
	"trade_count",
	"sentiment_value",
	"sentiment_category",
	"archetype",
}

// csvRow keeps numeric cells as text so a blank cell is rejected instead of
// decoding to zero.
type csvRow struct {
	Date              string `csv:"date"`
	DailyPnL          string `csv:"daily_pnl"`
	WinRate           string `csv:"win_rate"`
	TradeCount        string `csv:"trade_count"`
	SentimentValue    string `csv:"sentiment_value"`
	SentimentCategory string `csv:"sentiment_category"`
	Archetype         string `csv:"archetype"`
}

func (row *csvRow) record() (Record, error) {
	var (
		r   Record
		err error
	)
	if r.Date, err = ParseDate(row.Date); err != nil {
		return r, err
	}
	if r.DailyPnL, err = parseFloat("daily_pnl", row.DailyPnL); err != nil {
		return r, err
	}
	if r.WinRate, err = parseFloat("win_rate", row.WinRate); err != nil {
		return r, err
	}
	if r.SentimentValue, err = parseFloat("sentiment_value", row.SentimentValue); err != nil {
		return r, err
	}
	tc := strings.TrimSpace(row.TradeCount)
	if tc == "" {
		return r, errors.New("trade_count is blank")
	}
	if r.TradeCount, err = strconv.Atoi(tc); err != nil {
		return r, fmt.Errorf("trade_count %q is not an integer", tc)
	}
	r.SentimentCategory = strings.TrimSpace(row.SentimentCategory)
	r.Archetype = strings.TrimSpace(row.Archetype)
	return r, nil
}

func parseFloat(column, cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, fmt.Errorf("%s is blank", column)
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", column, cell)
	}
	return v, nil
}

// DecodeCSV parses a CSV document with a header row into a dataset.
func DecodeCSV(data []byte) (Dataset, error) {
	data = bytes.TrimPrefix(data, []byte("\uFEFF"))
	if err := checkHeader(data); err != nil {
		return nil, err
	}
	var rows []*csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ds := make(Dataset, 0, len(rows))
	for i, row := range rows {
		r, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformed, i+1, err)
		}
		ds = append(ds, r)
	}
	if err := validateAll(ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// EncodeCSV writes a dataset in the same layout DecodeCSV reads.
func EncodeCSV(ds Dataset) ([]byte, error) {
	rows := make([]*csvRow, 0, len(ds))
	for _, r := range ds {
		rows = append(rows, &csvRow{
			Date:              r.Date.Format("2006-01-02"),
			DailyPnL:          strconv.FormatFloat(r.DailyPnL, 'f', -1, 64),
			WinRate:           strconv.FormatFloat(r.WinRate, 'f', -1, 64),
			TradeCount:        strconv.Itoa(r.TradeCount),
			SentimentValue:    strconv.FormatFloat(r.SentimentValue, 'f', -1, 64),
			SentimentCategory: r.SentimentCategory,
			Archetype:         r.Archetype,
		})
	}
	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// checkHeader fails the load when a required column is absent; gocsv would
// otherwise leave those fields silently zero.
func checkHeader(data []byte) error {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrMalformed, err)
	}
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.TrimSpace(h)] = true
	}
	var missing []string
	for _, c := range Columns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrMalformed, strings.Join(missing, ", "))
	}
	return nil
}
