// Package filter holds the active predicates of a flight table and encodes
// them for SQL backends.
//
// A State carries one Predicate per dimension. Categorical dimensions take
// a value set where the empty set means "no restriction"; distance takes an
// inclusive range that defaults to the table extent:
//
//	st := filter.ForTable(table)
//	_ = st.Set(dataset.Airline, filter.In("AF", "LH"))
//	_ = st.Set(dataset.Distance, filter.Between(0, 1500))
//	view := st.Apply(table)
//
// # Wire Form
//
// Spec is the msgpack form of a State, keyed by dimension name, as carried
// in Flight tickets:
//
//	sp := st.Spec()
//	restored, err := filter.FromSpec(st.Bounds(), sp)
//
// # SQL Encoding
//
// DuckDBEncoder renders a State as a WHERE clause body over the columns of a
// naming convention:
//
//	enc := filter.NewDuckDBEncoder(dataset.CompilationColumns, nil)
//	where := enc.EncodeState(st)
//	// (airline_iata IN ('AF', 'LH')) AND (distance_km BETWEEN 0 AND 1500)
//
// Map convention columns to stored names with EncoderOptions.ColumnMapping,
// or replace them with SQL expressions with EncoderOptions.ColumnExpressions.
package filter
