package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type cacheKey struct {
	path  string
	rows  int
	start time.Time
	seed  uint64
}

// Loader reads the dashboard source once per path and keeps the result
// until Reset is called.
type Loader struct {
	Synthetic Generator

	mu    sync.Mutex
	cache map[cacheKey]*Result
}

func NewLoader(gen Generator) *Loader {
	return &Loader{Synthetic: gen, cache: map[cacheKey]*Result{}}
}

// Load returns the cached result for path, reading or generating it on
// first use. A missing file yields synthetic data plus a warning; a file
// that cannot be parsed yields an error wrapping ErrMalformed.
func (l *Loader) Load(path string) (*Result, error) {
	key := cacheKey{path: path, rows: l.Synthetic.Rows, start: l.Synthetic.Start, seed: l.Synthetic.Seed}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cache == nil {
		l.cache = map[cacheKey]*Result{}
	}
	if res, ok := l.cache[key]; ok {
		return res, nil
	}

	res, err := l.read(path)
	if err != nil {
		return nil, err
	}
	l.cache[key] = res
	return res, nil
}

// Reset drops every cached dataset; the next Load reads again.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.cache = map[cacheKey]*Result{}
	l.mu.Unlock()
	log.Info().Msg("dataset: cache cleared")
}

func (l *Loader) read(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ds := l.Synthetic.Generate()
			warning := fmt.Sprintf("'%s' not found. Using synthetic data for demo.", filepath.Base(path))
			log.Warn().Str("path", path).Int("rows", len(ds)).Msg("dataset: source missing, generated synthetic data")
			return &Result{Dataset: ds, Source: "synthetic", Synthetic: true, Warnings: []string{warning}}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var (
		ds  Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		ds, err = readParquet(path)
	case ".db", ".sqlite", ".sqlite3":
		ds, err = readSQLite(path)
	default:
		var data []byte
		data, err = os.ReadFile(path)
		if err == nil {
			ds, err = DecodeCSV(data)
		}
	}
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("dataset: load failed")
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("rows", len(ds)).Msg("dataset: loaded")
	return &Result{Dataset: ds, Source: path}, nil
}
