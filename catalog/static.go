package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// staticCatalog is an immutable catalog implementation built from CatalogBuilder.
type staticCatalog struct {
	sources map[string]Source
}

// NewStaticCatalog creates a static catalog.
// This is exported for use by the aeroscope package builder.
func NewStaticCatalog() *staticCatalog {
	return &staticCatalog{
		sources: make(map[string]Source),
	}
}

// AddSource adds a source to the static catalog.
// This is used during catalog building.
func (c *staticCatalog) AddSource(src Source) {
	c.sources[src.Name()] = src
}

// Sources implements Catalog interface.
func (c *staticCatalog) Sources(ctx context.Context) ([]Source, error) {
	result := make([]Source, 0, len(c.sources))
	for _, src := range c.sources {
		result = append(result, src)
	}
	slices.SortFunc(result, func(a, b Source) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return result, nil
}

// Source implements Catalog interface.
func (c *staticCatalog) Source(ctx context.Context, name string) (Source, error) {
	src, ok := c.sources[name]
	if !ok {
		return nil, nil // Not found, not an error
	}
	return src, nil
}

var (
	_ Catalog = (*staticCatalog)(nil)
	_ Table   = (*StaticTable)(nil)
	_ Source  = (*DataSource)(nil)
)

// NewStaticTable creates a static table.
func NewStaticTable(name, comment string, schema *arrow.Schema, scanFunc ScanFunc) *StaticTable {
	return &StaticTable{
		name:     name,
		comment:  comment,
		schema:   schema,
		scanFunc: scanFunc,
	}
}

// StaticTable is an immutable table implementation.
type StaticTable struct {
	name     string
	comment  string
	schema   *arrow.Schema
	scanFunc ScanFunc
}

// Name implements Table interface.
func (t *StaticTable) Name() string {
	return t.name
}

// Comment implements Table interface.
func (t *StaticTable) Comment() string {
	return t.comment
}

// ArrowSchema implements Table interface.
// If columns is nil or empty, returns full schema.
// If columns is provided, returns projected schema with only those columns.
func (t *StaticTable) ArrowSchema(columns []string) *arrow.Schema {
	return ProjectSchema(t.schema, columns)
}

// Scan implements Table interface.
func (t *StaticTable) Scan(ctx context.Context, opts *ScanOptions) (array.RecordReader, error) {
	return t.scanFunc(ctx, opts)
}

// ProjectSchema returns a schema with only the requested columns, in the
// requested order. Unknown names are skipped; if none match, the original
// schema is returned.
func ProjectSchema(schema *arrow.Schema, columns []string) *arrow.Schema {
	if len(columns) == 0 {
		return schema
	}

	// Build column name to index map
	colIndex := make(map[string]int, schema.NumFields())
	for i := 0; i < schema.NumFields(); i++ {
		colIndex[schema.Field(i).Name] = i
	}

	// Select only requested columns in order
	fields := make([]arrow.Field, 0, len(columns))
	for _, col := range columns {
		if idx, ok := colIndex[col]; ok {
			fields = append(fields, schema.Field(idx))
		}
	}

	if len(fields) == 0 {
		// No matching columns - return original schema
		return schema
	}

	// Preserve original schema metadata
	meta := schema.Metadata()
	return arrow.NewSchema(fields, &meta)
}
