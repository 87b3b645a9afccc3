package export

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Rana718/hospigen/internal/gencommon"
	"github.com/Rana718/hospigen/internal/types"
	"go.uber.org/zap"
)

// DateFormat is the format mask paired with types.TimeLayout in TO_DATE.
const DateFormat = "YYYY-MM-DD HH24:MI:SS"

// SQLWriter renders tables as batched multi-row INSERT statements, one file
// per table under dir.
type SQLWriter struct {
	dir       string
	batchSize int
	runID     string
	logger    *zap.Logger

	mu      sync.Mutex
	started map[string]bool
}

func NewSQLWriter(dir string, batchSize int, runID string, logger *zap.Logger) *SQLWriter {
	if batchSize <= 0 {
		batchSize = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLWriter{
		dir:       dir,
		batchSize: batchSize,
		runID:     runID,
		logger:    logger.Named("sql"),
		started:   make(map[string]bool),
	}
}

// Path returns the output file of a table.
func (w *SQLWriter) Path(table string) string {
	return filepath.Join(w.dir, table+".sql")
}

// first reports whether this is the first write of table in this run.
func (w *SQLWriter) first(table string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started[table] {
		return false
	}
	w.started[table] = true
	return true
}

func (w *SQLWriter) Write(ctx context.Context, t *types.Table) error {
	if err := checkIdentifiers(t); err != nil {
		return err
	}
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

	bw := bufio.NewWriterSize(f, 1<<20)
	if first {
		fmt.Fprintf(bw, "-- %s generated by hospigen run %s at %s\n", t.Name, w.runID, time.Now().UTC().Format(time.RFC3339))
	}

	start := time.Now()
	if err := w.render(ctx, bw, t); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", w.Path(t.Name), err)
	}

	w.logger.Debug("table written",
		zap.String("table", t.Name),
		zap.Int("rows", t.Len()),
		zap.Bool("append", !first),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (w *SQLWriter) render(ctx context.Context, bw *bufio.Writer, t *types.Table) error {
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES\n", t.Name, strings.Join(t.Columns, ", "))

	buf := gencommon.GetBuffer()
	defer gencommon.PutBuffer(buf)

	for lo := 0; lo < len(t.Rows); lo += w.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		hi := min(lo+w.batchSize, len(t.Rows))

		buf.Reset()
		buf.WriteString(prefix)
		for i := lo; i < hi; i++ {
			buf.WriteByte('(')
			for j, v := range t.Rows[i] {
				if j > 0 {
					buf.WriteString(", ")
				}
				buf.WriteString(Literal(v))
			}
			if i < hi-1 {
				buf.WriteString("),\n")
			} else {
				buf.WriteString(");\n")
			}
		}
		if _, err := bw.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.Name, err)
		}
	}
	return nil
}

func (w *SQLWriter) Close() error { return nil }

// Literal renders one value as a SQL literal. Times become TO_DATE
// expressions and raw values pass through. Text only has its single quotes
// doubled, so backslashes stay literal in standard SQL.
func Literal(v types.Value) string {
	switch v.Kind() {
	case types.KindNull:
		return "NULL"
	case types.KindInt, types.KindFloat:
		return v.String()
	case types.KindTime:
		return fmt.Sprintf("TO_DATE('%s', '%s')", v.String(), DateFormat)
	case types.KindRaw:
		return v.AsString()
	default:
		return "'" + strings.ReplaceAll(v.AsString(), "'", "''") + "'"
	}
}
