package catalog

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb"
)

// column binds an output field to the function appending one row's value.
type column[T any] struct {
	field  arrow.Field
	append func(b array.Builder, row T)
}

// columnSet is the full column list of one table over rows of type T.
type columnSet[T any] []column[T]

func (cs columnSet[T]) schema() *arrow.Schema {
	fields := make([]arrow.Field, len(cs))
	for i, c := range cs {
		fields[i] = c.field
	}
	return arrow.NewSchema(fields, nil)
}

// project keeps the requested columns in request order, like ProjectSchema.
func (cs columnSet[T]) project(names []string) columnSet[T] {
	if len(names) == 0 {
		return cs
	}
	byName := make(map[string]column[T], len(cs))
	for _, c := range cs {
		byName[c.field.Name] = c
	}
	out := make(columnSet[T], 0, len(names))
	for _, name := range names {
		if c, ok := byName[name]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return cs
	}
	return out
}

// read builds batches of at most batchSize rows and wraps them in a reader.
func (cs columnSet[T]) read(ctx context.Context, mem memory.Allocator, n, batchSize int, row func(i int) T) (array.RecordReader, error) {
	schema := cs.schema()
	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	var batches []arrow.RecordBatch
	defer func() {
		for _, b := range batches {
			b.Release()
		}
	}()

	for start := 0; start < n; start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+batchSize, n)
		for i := start; i < end; i++ {
			r := row(i)
			for f, c := range cs {
				c.append(builder.Field(f), r)
			}
		}
		batches = append(batches, builder.NewRecordBatch())
	}

	reader, err := array.NewRecordReader(schema, batches)
	if err != nil {
		return nil, fmt.Errorf("catalog: record reader: %w", err)
	}
	return reader, nil
}

func stringColumn[T any](name string, value func(T) string) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.BinaryTypes.String},
		append: func(b array.Builder, row T) {
			b.(*array.StringBuilder).Append(value(row))
		},
	}
}

func floatColumn[T any](name string, value func(T) float64) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		append: func(b array.Builder, row T) {
			b.(*array.Float64Builder).Append(value(row))
		},
	}
}

func boolColumn[T any](name string, value func(T) bool) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean},
		append: func(b array.Builder, row T) {
			b.(*array.BooleanBuilder).Append(value(row))
		},
	}
}

func stringListColumn[T any](name string, value func(T) []string) column[T] {
	return column[T]{
		field: arrow.Field{Name: name, Type: arrow.ListOf(arrow.BinaryTypes.String)},
		append: func(b array.Builder, row T) {
			lb := b.(*array.ListBuilder)
			lb.Append(true)
			vb := lb.ValueBuilder().(*array.StringBuilder)
			for _, v := range value(row) {
				vb.Append(v)
			}
		},
	}
}

func routeColumn[T any](name string, value func(T) orb.LineString) column[T] {
	return column[T]{
		field: RouteField(name),
		append: func(b array.Builder, row T) {
			gb := b.(*array.ExtensionBuilder).StorageBuilder().(*array.BinaryBuilder)
			wkbBytes, err := EncodeGeometry(value(row))
			if err != nil {
				gb.AppendNull()
				return
			}
			gb.Append(wkbBytes)
		},
	}
}
