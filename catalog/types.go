package catalog

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/engine"
	"github.com/hugr-lab/aeroscope-go/filter"
)

// ScanOptions provides options for table scans.
type ScanOptions struct {
	// Columns to return. If nil/empty, return all columns.
	Columns []string

	// Filter is the state to scan under.
	// If nil, no filtering (every dimension at its default).
	Filter *filter.State

	// Session scans the view and option lists of a live engine.
	// Takes precedence over Filter.
	// The caller MUST hold the session for the duration of Scan.
	Session *engine.Engine

	// Allocator for the returned batches.
	// If nil, memory.DefaultAllocator is used.
	Allocator memory.Allocator

	// Limit is maximum rows to return.
	// If 0 or negative, no limit.
	Limit int64

	// BatchSize is hint for RecordReader batch size.
	// If 0, implementation chooses default.
	BatchSize int

	// BinWidth is the distance bin width in km for the distance table.
	// If 0, DefaultBinWidth is used.
	BinWidth float64
}

// DefaultBinWidth is the distance histogram bin width in km.
const DefaultBinWidth = 500

const defaultBatchSize = 64 * 1024

// ScanFunc is a function type for table data retrieval.
type ScanFunc func(ctx context.Context, opts *ScanOptions) (array.RecordReader, error)

func (o *ScanOptions) allocator() memory.Allocator {
	if o == nil || o.Allocator == nil {
		return memory.DefaultAllocator
	}
	return o.Allocator
}

func (o *ScanOptions) batchSize() int {
	if o == nil || o.BatchSize <= 0 {
		return defaultBatchSize
	}
	return o.BatchSize
}

func (o *ScanOptions) columns() []string {
	if o == nil {
		return nil
	}
	return o.Columns
}

func (o *ScanOptions) binWidth() float64 {
	if o == nil || o.BinWidth <= 0 {
		return DefaultBinWidth
	}
	return o.BinWidth
}

// limit returns n capped by the scan limit.
func (o *ScanOptions) limit(n int) int {
	if o == nil || o.Limit <= 0 || int64(n) <= o.Limit {
		return n
	}
	return int(o.Limit)
}

// state returns the filter state the scan runs under.
func (o *ScanOptions) state(t *dataset.Table) *filter.State {
	switch {
	case o != nil && o.Session != nil:
		return o.Session.State()
	case o != nil && o.Filter != nil:
		return o.Filter
	}
	return filter.ForTable(t)
}

// view returns the filtered view the scan reads.
func (o *ScanOptions) view(t *dataset.Table) *dataset.View {
	if o != nil && o.Session != nil {
		return o.Session.View()
	}
	return o.state(t).Apply(t)
}
