package storage

import (
	"database/sql"
	"fmt"

	// Register sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// Table is the table a SQLite source must carry.
const Table = "dashboard_data"

type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	Close() error
}

// Row mirrors one dashboard_data row; the date stays text until the
// dataset package parses it.
type Row struct {
	Date              string
	DailyPnL          float64
	WinRate           float64
	TradeCount        int64
	SentimentValue    float64
	SentimentCategory string
	Archetype         string
}

type Store struct{ db DB }

func OpenSQLite(dsn string) (DB, error) {
	return sql.Open("sqlite3", dsn)
}

// OpenReadOnly opens an existing database file without creating it.
func OpenReadOnly(path string) (DB, error) {
	return OpenSQLite("file:" + path + "?mode=ro")
}

func InitSchema(db DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + Table + `(
		date TEXT NOT NULL,
		daily_pnl REAL NOT NULL,
		win_rate REAL NOT NULL,
		trade_count INTEGER NOT NULL,
		sentiment_value REAL NOT NULL,
		sentiment_category TEXT NOT NULL,
		archetype TEXT NOT NULL
	)`)
	return err
}

func NewStore(db DB) *Store { return &Store{db: db} }

// InsertRow is used to build fixture databases.
func (s *Store) InsertRow(r Row) error {
	_, err := s.db.Exec(`INSERT INTO `+Table+`(date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype)
		VALUES(?,?,?,?,?,?,?)`,
		r.Date, r.DailyPnL, r.WinRate, r.TradeCount, r.SentimentValue, r.SentimentCategory, r.Archetype)
	return err
}

// FetchRows returns every row in insertion order.
func (s *Store) FetchRows() ([]Row, error) {
	rows, err := s.db.Query(`SELECT date,daily_pnl,win_rate,trade_count,sentiment_value,sentiment_category,archetype
		FROM ` + Table + ` ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.Date, &r.DailyPnL, &r.WinRate, &r.TradeCount, &r.SentimentValue, &r.SentimentCategory, &r.Archetype); err != nil {
			return nil, fmt.Errorf("scan %s: %w", Table, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
