package dataset

import (
	"bufio"
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// Fill values for null categorical cells, as produced by the preprocessing
// step of the compiled datasets.
const (
	UnknownAirline  = "Unknown Airline"
	UnknownAircraft = "Unknown Aircraft"
)

// LoadOptions tunes CSV loading.
type LoadOptions struct {
	// Allocator for the Arrow CSV reader buffers.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// ChunkSize is the number of rows decoded per Arrow batch.
	// OPTIONAL: 0 uses 64Ki rows.
	ChunkSize int

	// Comma is the field delimiter.
	// OPTIONAL: 0 uses ','.
	Comma rune
}

const defaultChunkSize = 64 * 1024

// Load reads a CSV flight table using the given naming convention.
//
// The header is validated before any row is decoded: a column required by
// the convention that is absent fails with a *MissingColumnError. Only the
// required columns are decoded; any other column (including an unnamed
// index column) is ignored.
func Load(r io.Reader, columns Columns, opts *LoadOptions) (*Table, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}
	alloc := opts.Allocator
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	comma := opts.Comma
	if comma == 0 {
		comma = ','
	}

	br := bufio.NewReader(r)
	headerLine, err := br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	header, err := parseHeader(headerLine, comma)
	if err != nil {
		return nil, err
	}
	if err := columns.Validate(header); err != nil {
		return nil, err
	}

	required := columns.Required()
	types := make(map[string]arrow.DataType, len(required))
	for _, col := range required {
		types[col] = arrow.BinaryTypes.String
	}
	for _, col := range columns.numericColumns() {
		types[col] = arrow.PrimitiveTypes.Float64
	}

	rdr := csv.NewInferringReader(
		io.MultiReader(bytes.NewReader(headerLine), br),
		csv.WithAllocator(alloc),
		csv.WithHeader(true),
		csv.WithComma(comma),
		csv.WithChunk(chunk),
		csv.WithIncludeColumns(required),
		csv.WithColumnTypes(types),
		csv.WithNullReader(true, "", "NaN"),
		csv.WithLazyQuotes(true),
	)
	defer rdr.Release()

	var records []FlightRecord
	for rdr.Next() {
		batch := rdr.RecordBatch()
		decoded, err := decodeBatch(batch, columns)
		if err != nil {
			return nil, err
		}
		records = append(records, decoded...)
	}
	if err := rdr.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset: decode %s csv: %w", columns.Name, err)
	}

	return NewTable(columns, records), nil
}

func parseHeader(line []byte, comma rune) ([]string, error) {
	line = bytes.TrimPrefix(line, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, fmt.Errorf("dataset: empty csv header")
	}
	cr := stdcsv.NewReader(bytes.NewReader(line))
	cr.Comma = comma
	cr.LazyQuotes = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: parse header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return header, nil
}

func (c Columns) numericColumns() []string {
	var cols []string
	if col := c.Dimensions[Distance]; col != "" {
		cols = append(cols, col)
	}
	for _, m := range AllMetrics() {
		if col := c.Metrics[m]; col != "" {
			cols = append(cols, col)
		}
	}
	if c.HasCoordinates() {
		cols = append(cols, c.DepartureLon, c.DepartureLat, c.ArrivalLon, c.ArrivalLat)
	}
	return cols
}

// batchColumns resolves the columns of one Arrow batch by name.
type batchColumns struct {
	strings map[string]*array.String
	floats  map[string]*array.Float64
}

func resolveColumns(batch arrow.RecordBatch, columns Columns) (*batchColumns, error) {
	bc := &batchColumns{
		strings: make(map[string]*array.String),
		floats:  make(map[string]*array.Float64),
	}
	schema := batch.Schema()
	numeric := make(map[string]bool)
	for _, col := range columns.numericColumns() {
		numeric[col] = true
	}
	for _, col := range columns.Required() {
		idx := schema.FieldIndices(col)
		if len(idx) == 0 {
			return nil, &MissingColumnError{Convention: columns.Name, Column: col}
		}
		arr := batch.Column(idx[0])
		if numeric[col] {
			f, ok := arr.(*array.Float64)
			if !ok {
				return nil, fmt.Errorf("dataset: column %q decoded as %s, want double", col, arr.DataType())
			}
			bc.floats[col] = f
			continue
		}
		s, ok := arr.(*array.String)
		if !ok {
			return nil, fmt.Errorf("dataset: column %q decoded as %s, want utf8", col, arr.DataType())
		}
		bc.strings[col] = s
	}
	return bc, nil
}

func (bc *batchColumns) str(col string, i int) string {
	if col == "" {
		return ""
	}
	arr := bc.strings[col]
	if arr.IsNull(i) {
		return ""
	}
	return strings.TrimSpace(arr.Value(i))
}

func (bc *batchColumns) num(col string, i int) float64 {
	arr := bc.floats[col]
	if arr.IsNull(i) {
		return math.NaN()
	}
	return arr.Value(i)
}

func decodeBatch(batch arrow.RecordBatch, columns Columns) ([]FlightRecord, error) {
	bc, err := resolveColumns(batch, columns)
	if err != nil {
		return nil, err
	}

	continent := func(v string) string {
		if columns.ContinentCodes {
			return ContinentName(v)
		}
		return v
	}

	n := int(batch.NumRows())
	out := make([]FlightRecord, n)
	for i := 0; i < n; i++ {
		r := &out[i]
		r.DepartureAirport = bc.str(columns.Column(DepartureAirport), i)
		r.DepartureCountry = bc.str(columns.Column(DepartureCountry), i)
		r.DepartureContinent = continent(bc.str(columns.Column(DepartureContinent), i))
		r.ArrivalAirport = bc.str(columns.Column(ArrivalAirport), i)
		r.ArrivalCountry = bc.str(columns.Column(ArrivalCountry), i)
		r.ArrivalContinent = continent(bc.str(columns.Column(ArrivalContinent), i))
		r.Airline = orDefault(bc.str(columns.Column(Airline), i), UnknownAirline, columns.HasDimension(Airline))
		r.Aircraft = orDefault(bc.str(columns.Column(Aircraft), i), UnknownAircraft, columns.HasDimension(Aircraft))
		r.AircraftClass = orDefault(bc.str(columns.AircraftClass, i), UnknownAircraft, columns.AircraftClass != "")
		if col := columns.Column(FlightType); col != "" {
			r.Domestic = parseDomestic(bc.str(col, i))
		}

		if columns.HasCoordinates() {
			r.Departure = orb.Point{bc.num(columns.DepartureLon, i), bc.num(columns.DepartureLat, i)}
			r.Arrival = orb.Point{bc.num(columns.ArrivalLon, i), bc.num(columns.ArrivalLat, i)}
		}
		if col := columns.Column(Distance); col != "" {
			r.DistanceKm = bc.num(col, i)
		} else {
			r.DistanceKm = GreatCircleKm(r.Departure, r.Arrival)
		}

		for m, col := range columns.Metrics {
			v := bc.num(col, i)
			if math.IsNaN(v) {
				v = 0
			}
			r.Metrics.Set(m, v)
		}
	}
	return out, nil
}

func orDefault(v, fill string, carried bool) string {
	if v == "" && carried {
		return fill
	}
	return v
}

func parseDomestic(v string) bool {
	switch strings.ToLower(v) {
	case "1", "1.0", "true", "t", "yes", FlightTypeDomestic:
		return true
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f != 0
	}
	return false
}

// GreatCircleKm returns the haversine distance between two lon/lat points
// in kilometres. Points with NaN coordinates yield NaN.
func GreatCircleKm(from, to orb.Point) float64 {
	return geo.DistanceHaversine(from, to) / 1000
}
