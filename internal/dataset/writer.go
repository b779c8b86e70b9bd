package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var ErrExists = errors.New("output already exists")

// WriteFile stores ds at path in the format Load picks for its extension.
// Existing files are never overwritten.
func WriteFile(path string, ds Dataset) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return WriteParquet(path, ds)
	case ".db", ".sqlite", ".sqlite3":
		return writeSQLite(path, ds)
	default:
		data, err := EncodeCSV(ds)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	}
}
