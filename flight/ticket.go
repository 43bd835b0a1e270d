package flight

import (
	"fmt"

	"github.com/hugr-lab/aeroscope-go/catalog"
	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/filter"
	"github.com/hugr-lab/aeroscope-go/internal/msgpack"
)

// TicketData represents the decoded content of a Flight ticket.
// Tickets are opaque MessagePack byte slices naming the table to stream and
// the filter to scan it under.
type TicketData struct {
	// Source is the data source name (e.g., "compilation", "opensky")
	Source string `msgpack:"source"`

	// Table is the table name (e.g., "flights", "summary")
	Table string `msgpack:"table"`

	// Session scans under the state of a live filter session (optional).
	// Takes precedence over Filters.
	Session string `msgpack:"session,omitempty"`

	// Filters is a one-shot filter state (optional).
	Filters *filter.Spec `msgpack:"filters,omitempty"`

	// Columns to project (optional, nil means all columns)
	Columns []string `msgpack:"columns,omitempty"`

	// Limit caps the streamed rows of the flights and routes tables (optional)
	Limit int64 `msgpack:"limit,omitempty"`
}

// EncodeTicket creates an opaque ticket for a source table.
// Returns error if encoding fails.
func EncodeTicket(td TicketData) ([]byte, error) {
	if td.Source == "" {
		return nil, fmt.Errorf("source name cannot be empty")
	}
	if td.Table == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	data, err := msgpack.Encode(td)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket: %w", err)
	}

	return data, nil
}

// DecodeTicket parses an opaque ticket.
// Returns error if ticket is invalid or cannot be decoded.
func DecodeTicket(ticketBytes []byte) (*TicketData, error) {
	if len(ticketBytes) == 0 {
		return nil, fmt.Errorf("ticket cannot be empty")
	}

	var ticket TicketData
	if err := msgpack.Decode(ticketBytes, &ticket); err != nil {
		return nil, fmt.Errorf("failed to decode ticket: %w", err)
	}

	if ticket.Source == "" {
		return nil, fmt.Errorf("decoded ticket has empty source name")
	}
	if ticket.Table == "" {
		return nil, fmt.Errorf("decoded ticket has empty table name")
	}
	if ticket.Limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", ticket.Limit)
	}

	return &ticket, nil
}

// ScanOptions converts the ticket to catalog.ScanOptions for a source over
// data. The session, if any, is resolved by the caller.
func (td *TicketData) ScanOptions(data *dataset.Table) (*catalog.ScanOptions, error) {
	opts := &catalog.ScanOptions{
		Columns: td.Columns,
		Limit:   td.Limit,
	}
	if td.Session == "" && td.Filters != nil && !td.Filters.Empty() {
		st, err := filter.ForSpec(data, *td.Filters)
		if err != nil {
			return nil, err
		}
		opts.Filter = st
	}
	return opts, nil
}
