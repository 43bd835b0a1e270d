// Package serialize provides catalog serialization to Arrow IPC format.
// Used by ListFlights RPC to serialize and compress the source listing.
package serialize

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/aeroscope-go/catalog"
)

// ListingSchema is the schema of the serialized listing: one row per table
// of every source. num_rows is the base row count of the flights table and
// null for derived tables.
var ListingSchema = arrow.NewSchema([]arrow.Field{
	{Name: "source_name", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "source_comment", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "table_name", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "table_comment", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "num_rows", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
}, nil)

// SerializeCatalog serializes the source listing of a catalog to Arrow IPC
// stream format. Sources for which keep returns false are left out; a nil
// keep lists every source.
func SerializeCatalog(ctx context.Context, cat catalog.Catalog, allocator memory.Allocator, keep func(source string) bool) ([]byte, error) {
	sources, err := cat.Sources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}

	builder := array.NewRecordBuilder(allocator, ListingSchema)
	defer builder.Release()

	sourceNameBuilder := builder.Field(0).(*array.StringBuilder)
	sourceCommentBuilder := builder.Field(1).(*array.StringBuilder)
	tableNameBuilder := builder.Field(2).(*array.StringBuilder)
	tableCommentBuilder := builder.Field(3).(*array.StringBuilder)
	numRowsBuilder := builder.Field(4).(*array.Int64Builder)

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if keep != nil && !keep(src.Name()) {
			continue
		}
		tables, err := src.Tables(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get tables for source %s: %w", src.Name(), err)
		}

		for _, table := range tables {
			sourceNameBuilder.Append(src.Name())
			appendComment(sourceCommentBuilder, src.Comment())
			tableNameBuilder.Append(table.Name())
			appendComment(tableCommentBuilder, table.Comment())
			if table.Name() == catalog.FlightsTable && src.Data() != nil {
				numRowsBuilder.Append(int64(src.Data().Len()))
			} else {
				numRowsBuilder.AppendNull()
			}
		}
	}

	record := builder.NewRecordBatch()
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(ListingSchema), ipc.WithAllocator(allocator))
	defer writer.Close()

	if err := writer.Write(record); err != nil {
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	return buf.Bytes(), nil
}

func appendComment(b *array.StringBuilder, comment string) {
	if comment == "" {
		b.AppendNull()
		return
	}
	b.Append(comment)
}

// CompressCatalog compresses serialized catalog data using ZStandard.
func CompressCatalog(data []byte) ([]byte, error) {
	return compress(data)
}

// DecompressCatalog reverses CompressCatalog.
func DecompressCatalog(data []byte) ([]byte, error) {
	return decompress(data)
}
