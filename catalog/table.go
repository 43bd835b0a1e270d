package catalog

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Table is one Arrow view of a source: the filtered flights, or a derived
// table such as summary or distance. Implementations MUST be safe for
// concurrent scans.
type Table interface {
	// Name is one of TableNames.
	Name() string
	Comment() string

	// ArrowSchema returns the schema of the given columns in request
	// order. Unknown names are skipped; nil columns, or none known, give
	// the full schema.
	ArrowSchema(columns []string) *arrow.Schema

	// Scan streams the table under opts. The reader's schema equals
	// ArrowSchema(opts.Columns); the caller releases it. Scan stops with
	// ctx.Err() once ctx is done.
	Scan(ctx context.Context, opts *ScanOptions) (array.RecordReader, error)
}
