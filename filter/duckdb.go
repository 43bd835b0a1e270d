package filter

import (
	"strconv"
	"strings"

	"github.com/hugr-lab/aeroscope-go/dataset"
)

// DuckDBEncoder encodes filter states to DuckDB SQL syntax.
type DuckDBEncoder struct {
	columns dataset.Columns
	opts    *EncoderOptions
}

// NewDuckDBEncoder creates a new DuckDB SQL encoder for tables stored under
// the given column convention.
// If opts is nil, default options are used.
func NewDuckDBEncoder(columns dataset.Columns, opts *EncoderOptions) *DuckDBEncoder {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	return &DuckDBEncoder{columns: columns, opts: opts}
}

// EncodeState converts all active predicates to a WHERE clause body.
// Returns the condition portion without "WHERE" keyword.
// Returns empty string if nothing is restricted.
func (e *DuckDBEncoder) EncodeState(s *State) string {
	if s == nil {
		return ""
	}

	var parts []string
	for _, d := range s.Active() {
		encoded := e.Encode(d, s.Predicate(d))
		if encoded != "" {
			parts = append(parts, encoded)
		}
	}

	if len(parts) == 0 {
		return ""
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return "(" + strings.Join(parts, ") AND (") + ")"
}

// Encode converts the predicate of one dimension to SQL.
// Returns empty string if the predicate restricts nothing or the dimension
// has no column.
func (e *DuckDBEncoder) Encode(d dataset.Dimension, p Predicate) string {
	col := e.column(d)
	if col == "" || p.Empty() {
		return ""
	}

	if r, ok := p.Range(); ok {
		return col + " BETWEEN " + formatFloat(r.Min) + " AND " + formatFloat(r.Max)
	}

	if d == dataset.FlightType {
		return e.encodeFlightType(col, p.Values())
	}

	values := p.Values()
	literals := make([]string, 0, len(values))
	for _, v := range values {
		literals = append(literals, QuoteLiteral(v))
	}
	return col + " IN (" + strings.Join(literals, ", ") + ")"
}

// encodeFlightType maps domestic/international onto the boolean column.
func (e *DuckDBEncoder) encodeFlightType(col string, values []string) string {
	var domestic, international bool
	for _, v := range values {
		switch v {
		case dataset.FlightTypeDomestic:
			domestic = true
		case dataset.FlightTypeInternational:
			international = true
		}
	}
	expr := "CAST(" + col + " AS BOOLEAN)"
	switch {
	case domestic && international:
		return expr + " IS NOT NULL"
	case domestic:
		return expr
	case international:
		return "NOT " + expr
	}
	return "FALSE"
}

// column resolves the SQL expression for a dimension.
func (e *DuckDBEncoder) column(d dataset.Dimension) string {
	name := e.columns.Column(d)
	if name == "" && d == dataset.Distance {
		name = DistanceColumn
	}
	if name == "" {
		return ""
	}
	if expr, ok := e.opts.ColumnExpressions[name]; ok {
		return expr
	}
	if mapped, ok := e.opts.ColumnMapping[name]; ok {
		name = mapped
	}
	return QuoteIdentifier(name)
}

// DistanceColumn is the column holding computed distances for conventions
// without a distance column of their own.
const DistanceColumn = "distance_km"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
