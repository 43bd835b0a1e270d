// Package sqlstore keeps flight tables in an in-process DuckDB database and
// evaluates filter states as SQL.
//
// A table imported from a dataset.Table, or read from CSV, answers Count,
// Sum and Filter for a filter.State with the same rows the in-memory
// engine selects.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/duckdb/duckdb-go/v2"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/filter"
)

// ErrTableNotFound is returned when a named table does not exist.
var ErrTableNotFound = errors.New("sqlstore: table not found")

// Store is a DuckDB database holding flight tables.
// It is safe for concurrent use.
type Store struct {
	connector *duckdb.Connector
	db        *sql.DB
	logger    *slog.Logger
}

// Open opens a DuckDB database. An empty dsn opens an in-memory database.
// If logger is nil, slog.Default() is used.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	connector, err := duckdb.NewConnector(dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open duckdb: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		connector.Close()
		return nil, fmt.Errorf("sqlstore: ping duckdb: %w", err)
	}
	return &Store{connector: connector, db: db, logger: logger}, nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return errors.Join(s.db.Close(), s.connector.Close())
}

// Import replaces table name with the records of t, stored under the
// column names of t's convention. Conventions without a distance column
// get filter.DistanceColumn.
func (s *Store) Import(ctx context.Context, name string, t *dataset.Table) error {
	cols := storedColumns(t.Columns())

	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, filter.QuoteIdentifier(c.name)+" "+c.typ)
	}
	ddl := "CREATE OR REPLACE TABLE " + filter.QuoteIdentifier(name) + " (" + strings.Join(defs, ", ") + ")"
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlstore: create %s: %w", name, err)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: %w", err)
	}
	defer conn.Close()

	err = conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		appender, err := duckdb.NewAppenderFromConn(dc, "", name)
		if err != nil {
			return err
		}
		row := make([]driver.Value, len(cols))
		for i := 0; i < t.Len(); i++ {
			r := t.Record(i)
			if err := ctx.Err(); err != nil {
				appender.Close()
				return err
			}
			for j, c := range cols {
				row[j] = c.value(r)
			}
			if err := appender.AppendRow(row...); err != nil {
				appender.Close()
				return err
			}
		}
		return appender.Close()
	})
	if err != nil {
		return fmt.Errorf("sqlstore: import %s: %w", name, err)
	}

	s.logger.Debug("Imported flight table", "table", name, "rows", t.Len())
	return nil
}

// ReadCSV replaces table name with the contents of a CSV file, letting
// DuckDB detect the column types.
func (s *Store) ReadCSV(ctx context.Context, name, path string) error {
	query := "CREATE OR REPLACE TABLE " + filter.QuoteIdentifier(name) +
		" AS SELECT * FROM read_csv(" + filter.QuoteLiteral(path) + ", header = true)"
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("sqlstore: read %s: %w", path, err)
	}
	s.logger.Debug("Read CSV into table", "table", name, "path", path)
	return nil
}

// Load reads table name back as a dataset.Table under the given
// convention. The stored columns are validated before any row is read.
func (s *Store) Load(ctx context.Context, name string, columns dataset.Columns) (*dataset.Table, error) {
	return s.load(ctx, name, columns, "")
}

// Filter returns the rows of table name matching state, in stored order.
func (s *Store) Filter(ctx context.Context, name string, columns dataset.Columns, state *filter.State) (*dataset.Table, error) {
	return s.load(ctx, name, columns, where(columns, state))
}

// Count returns the number of rows of table name matching state.
func (s *Store) Count(ctx context.Context, name string, columns dataset.Columns, state *filter.State) (int64, error) {
	query := "SELECT COUNT(*) FROM " + filter.QuoteIdentifier(name) + where(columns, state)
	var n int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlstore: count %s: %w", name, err)
	}
	return n, nil
}

// Sum returns the total of metric m over the rows of table name matching
// state.
func (s *Store) Sum(ctx context.Context, name string, columns dataset.Columns, state *filter.State, m dataset.Metric) (float64, error) {
	col := columns.MetricColumn(m)
	if col == "" {
		return 0, fmt.Errorf("sqlstore: %s convention has no %s column", columns.Name, m)
	}
	query := "SELECT COALESCE(SUM(" + filter.QuoteIdentifier(col) + "), 0) FROM " + filter.QuoteIdentifier(name) + where(columns, state)
	var v float64
	if err := s.db.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return 0, fmt.Errorf("sqlstore: sum %s: %w", name, err)
	}
	return v, nil
}

// where renders state as a WHERE clause. The distance interval is always
// included, as the in-memory filter applies it to every row.
func where(columns dataset.Columns, state *filter.State) string {
	if state == nil {
		return ""
	}
	enc := filter.NewDuckDBEncoder(columns, nil)
	var conds []string
	if cond := enc.EncodeState(state); cond != "" {
		conds = append(conds, "("+cond+")")
	}
	if !slices.Contains(state.Active(), dataset.Distance) {
		conds = append(conds, "("+enc.Encode(dataset.Distance, state.Predicate(dataset.Distance))+")")
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// header returns the column names of table name in order.
func (s *Store) header(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position", name)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: describe %s: %w", name, err)
	}
	defer rows.Close()

	var header []string
	for rows.Next() {
		var col string
		if err := rows.Scan(&col); err != nil {
			return nil, fmt.Errorf("sqlstore: describe %s: %w", name, err)
		}
		header = append(header, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: describe %s: %w", name, err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return header, nil
}

func (s *Store) load(ctx context.Context, name string, columns dataset.Columns, cond string) (*dataset.Table, error) {
	header, err := s.header(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := columns.Validate(header); err != nil {
		return nil, err
	}

	fields := readFields(columns)
	exprs := make([]string, 0, len(fields))
	for _, f := range fields {
		exprs = append(exprs, f.expr)
	}
	query := "SELECT " + strings.Join(exprs, ", ") + " FROM " + filter.QuoteIdentifier(name) + cond + " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query %s: %w", name, err)
	}
	defer rows.Close()

	var records []dataset.FlightRecord
	dest := make([]any, len(fields))
	for rows.Next() {
		var r dataset.FlightRecord
		for i, f := range fields {
			dest[i] = f.dest()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("sqlstore: scan %s: %w", name, err)
		}
		for i, f := range fields {
			f.assign(&r, dest[i])
		}
		if columns.Column(dataset.Distance) == "" {
			r.DistanceKm = dataset.GreatCircleKm(r.Departure, r.Arrival)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: read %s: %w", name, err)
	}

	s.logger.Debug("Loaded flight table", "table", name, "convention", columns.Name, "rows", len(records))
	return dataset.NewTable(columns, records), nil
}
