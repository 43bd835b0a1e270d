package filter

import (
	"strings"

	"github.com/hugr-lab/aeroscope-go/dataset"
)

// Encoder converts filter states to SQL strings.
// Implementations handle dialect-specific syntax.
type Encoder interface {
	// Encode converts the predicate of a single dimension to SQL.
	// Returns empty string if the predicate restricts nothing.
	Encode(d dataset.Dimension, p Predicate) string

	// EncodeState converts all active predicates to a WHERE clause body.
	// Returns the condition portion without "WHERE" keyword.
	// Returns empty string if nothing is restricted.
	EncodeState(s *State) string
}

// EncoderOptions configures encoding behavior.
type EncoderOptions struct {
	// ColumnMapping maps convention column names to stored column names.
	// Columns not in the map use their convention names.
	ColumnMapping map[string]string

	// ColumnExpressions maps convention column names to SQL expressions.
	// Takes precedence over ColumnMapping.
	ColumnExpressions map[string]string
}

// QuoteLiteral returns s as a SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier returns name as a DuckDB identifier. Plain names are left
// bare; anything else is double-quoted.
func QuoteIdentifier(name string) string {
	if plainIdentifier(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// reservedWords are the DuckDB keywords that cannot name a column unquoted.
var reservedWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		ALL ANALYSE ANALYZE AND ANY ARRAY AS ASC ASYMMETRIC BOTH CASE CAST
		CHECK COLLATE COLUMN CONSTRAINT CREATE DEFAULT DEFERRABLE DESC
		DESCRIBE DISTINCT DO ELSE END EXCEPT FALSE FETCH FOR FOREIGN FROM
		GRANT GROUP HAVING IN INITIALLY INTERSECT INTO LATERAL LEADING LIMIT
		NOT NULL OFFSET ON ONLY OR ORDER PIVOT PLACING PRIMARY REFERENCES
		RETURNING SELECT SHOW SOME SUMMARIZE SYMMETRIC TABLE THEN TO TRAILING
		TRUE UNION UNIQUE UNPIVOT USING VARIADIC WHEN WHERE WINDOW WITH`) {
		reservedWords[w] = struct{}{}
	}
}

// plainIdentifier reports whether name is an ASCII word that is not reserved.
func plainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	_, reserved := reservedWords[strings.ToUpper(name)]
	return !reserved
}
