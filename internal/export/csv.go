package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/Rana718/hospigen/internal/types"
	"go.uber.org/zap"
)

// CSVWriter renders tables as delimited records with a header row.
type CSVWriter struct {
	dir    string
	comma  rune
	logger *zap.Logger

	mu      sync.Mutex
	started map[string]bool
}

func NewCSVWriter(dir, delimiter string, logger *zap.Logger) *CSVWriter {
	comma, _ := utf8.DecodeRuneInString(delimiter)
	if comma == utf8.RuneError {
		comma = ';'
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVWriter{
		dir:     dir,
		comma:   comma,
		logger:  logger.Named("csv"),
		started: make(map[string]bool),
	}
}

func (w *CSVWriter) Path(table string) string {
	return filepath.Join(w.dir, table+".csv")
}

func (w *CSVWriter) first(table string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started[table] {
		return false
	}
	w.started[table] = true
	return true
}

func (w *CSVWriter) Write(ctx context.Context, t *types.Table) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	first := w.first(t.Name)
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if first {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(w.Path(t.Name), flags, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", w.Path(t.Name), err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = w.comma

	if first {
		if err := cw.Write(t.Columns); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", t.Name, err)
		}
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, v := range row {
			record[j] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", t.Name, err)
	}

	w.logger.Debug("table written", zap.String("table", t.Name), zap.Int("rows", t.Len()))
	return nil
}

func (w *CSVWriter) Close() error { return nil }
