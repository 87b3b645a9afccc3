package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/hospigen/internal/types"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DatabaseSink loads tables straight into a live database. Identifiers are
// lower-cased so they match unquoted DDL.
type DatabaseSink struct {
	provider  string
	batchSize int
	pool      *pgxpool.Pool
	db        *sql.DB
	qb        squirrel.StatementBuilderType
	logger    *zap.Logger
}

func NewDatabaseSink(ctx context.Context, provider, url string, batchSize int, logger *zap.Logger) (*DatabaseSink, error) {
	if batchSize <= 0 {
		batchSize = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DatabaseSink{
		provider:  provider,
		batchSize: batchSize,
		qb:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger:    logger.Named("db"),
	}

	var err error
	switch provider {
	case "postgresql", "postgres":
		err = s.connectPostgres(ctx, url)
	case "mysql":
		err = s.connectSQL(ctx, "mysql", mysqlDSN(url))
	case "sqlite", "sqlite3":
		err = s.connectSQL(ctx, "sqlite3", sqlitePath(url))
	default:
		err = fmt.Errorf("unsupported database provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewSQLSink wraps an open *sql.DB for the mysql or sqlite dialect.
func NewSQLSink(db *sql.DB, provider string, batchSize int, logger *zap.Logger) *DatabaseSink {
	if batchSize <= 0 {
		batchSize = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatabaseSink{
		provider:  provider,
		batchSize: batchSize,
		db:        db,
		qb:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		logger:    logger.Named("db"),
	}
}

func (s *DatabaseSink) connectPostgres(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.pool = pool
	return nil
}

func (s *DatabaseSink) connectSQL(ctx context.Context, driver, dsn string) error {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", driver, err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(15 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func mysqlDSN(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}
	dsn := strings.TrimPrefix(url, "mysql://")
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	credentials, remainder := dsn[:at], dsn[at+1:]
	slash := strings.Index(remainder, "/")
	if slash <= 0 {
		return dsn
	}
	return fmt.Sprintf("%s@tcp(%s)/%s", credentials, remainder[:slash], remainder[slash+1:])
}

func sqlitePath(url string) string {
	path := strings.TrimPrefix(url, "sqlite://")
	if !strings.Contains(path, "?") {
		path += "?_journal_mode=WAL"
	}
	return path
}

func (s *DatabaseSink) Write(ctx context.Context, t *types.Table) error {
	if err := checkIdentifiers(t); err != nil {
		return err
	}
	if t.Len() == 0 {
		return nil
	}

	start := time.Now()
	var err error
	if s.pool != nil {
		err = s.copyPostgres(ctx, t)
	} else {
		err = s.insertBatches(ctx, t)
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", t.Name, err)
	}

	s.logger.Debug("table loaded",
		zap.String("table", t.Name),
		zap.Int("rows", t.Len()),
		zap.Duration("took", time.Since(start)))
	return nil
}

func (s *DatabaseSink) copyPostgres(ctx context.Context, t *types.Table) error {
	columns := lower(t.Columns)
	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{strings.ToLower(t.Name)},
		columns,
		pgx.CopyFromSlice(len(t.Rows), func(i int) ([]any, error) {
			return nativeRow(t.Rows[i]), nil
		}),
	)
	return err
}

func (s *DatabaseSink) insertBatches(ctx context.Context, t *types.Table) error {
	table := s.quote(strings.ToLower(t.Name))
	columns := lower(t.Columns)
	for i, c := range columns {
		columns[i] = s.quote(c)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for lo := 0; lo < len(t.Rows); lo += s.batchSize {
		hi := min(lo+s.batchSize, len(t.Rows))

		q := s.qb.Insert(table).Columns(columns...)
		for _, row := range t.Rows[lo:hi] {
			q = q.Values(nativeRow(row)...)
		}
		query, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", lo, hi-1, err)
		}
	}
	return tx.Commit()
}

func (s *DatabaseSink) quote(ident string) string {
	if s.provider == "mysql" {
		return "`" + ident + "`"
	}
	return pq.QuoteIdentifier(ident)
}

func (s *DatabaseSink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

func nativeRow(row types.Row) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v.Native()
	}
	return out
}
