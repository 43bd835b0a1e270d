// Package catalog exposes loaded flight data sources as Arrow tables.
//
// A Catalog holds Sources, one per loaded dataset. Each Source offers a
// fixed set of tables computed from its base table under a filter state:
//   - flights: the filtered rows, with a WKB route geometry when the source
//     carries coordinates
//   - summary: the summary table (name, val, sr, mr, lr)
//   - routes: origin-destination aggregation
//   - distance: per-metric distance histogram with cumulative shares
//   - options: the values each dimension can still take
//
// All interfaces are goroutine-safe and support context-based cancellation.
package catalog

import (
	"context"

	"github.com/hugr-lab/aeroscope-go/dataset"
)

// Catalog represents the top-level metadata container.
// Implementations MUST be goroutine-safe.
type Catalog interface {
	// Sources returns all sources, ordered by name.
	// Returns empty slice (not nil) if no sources are available.
	// MUST respect context cancellation and deadlines.
	Sources(ctx context.Context) ([]Source, error)

	// Source returns a specific source by name.
	// Returns (nil, nil) if source doesn't exist (not an error).
	// Returns (nil, err) if lookup fails for other reasons.
	Source(ctx context.Context, name string) (Source, error)
}

// Source is one loaded dataset and the tables computed from it.
// Implementations MUST be goroutine-safe.
type Source interface {
	// Name returns the source name (e.g., "compilation", "opensky").
	// MUST return non-empty string.
	Name() string

	// Comment returns optional source documentation.
	Comment() string

	// Data returns the immutable base table.
	Data() *dataset.Table

	// Tables returns all tables of this source.
	// Returns empty slice (not nil) if no tables available.
	Tables(ctx context.Context) ([]Table, error)

	// Table returns a specific table by name.
	// Returns (nil, nil) if table doesn't exist (not an error).
	Table(ctx context.Context, name string) (Table, error)
}
