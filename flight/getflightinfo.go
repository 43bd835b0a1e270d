package flight

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go/catalog"
)

// GetFlightInfo returns schema metadata and ticket for table queries.
// This RPC allows clients to discover table schemas before fetching data.
//
// The descriptor.Path should contain [source_name, table_name].
// Returns FlightInfo with:
//   - Schema: Arrow schema for the table
//   - Ticket: unfiltered ticket for the table
//   - Endpoints: Single endpoint with the ticket, located at the server address
func (s *Server) GetFlightInfo(ctx context.Context, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	ctx = EnrichContextMetadata(ctx)

	if desc.GetType() != flight.DescriptorPATH {
		return nil, status.Error(codes.InvalidArgument, "descriptor must be PATH type")
	}

	path := desc.GetPath()
	if len(path) != 2 {
		return nil, status.Error(codes.InvalidArgument, "path must contain exactly 2 elements: [source_name, table_name]")
	}

	sourceName := path[0]
	tableName := path[1]

	s.logger.Debug("GetFlightInfo request",
		"source", sourceName,
		"table", tableName,
	)

	src, err := s.source(ctx, sourceName)
	if err != nil {
		return nil, err
	}

	table, err := src.Table(ctx, tableName)
	if err != nil {
		s.logger.Error("Failed to get table from source",
			"source", sourceName,
			"table", tableName,
			"error", err,
		)
		return nil, status.Errorf(codes.Internal, "failed to get table: %v", err)
	}
	if table == nil {
		return nil, status.Errorf(codes.NotFound, "table not found: %s.%s", sourceName, tableName)
	}

	arrowSchema := table.ArrowSchema(nil)
	if arrowSchema == nil {
		return nil, status.Errorf(codes.Internal, "table %s.%s has nil Arrow schema", sourceName, tableName)
	}

	ticket, err := EncodeTicket(TicketData{Source: sourceName, Table: tableName})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode ticket: %v", err)
	}

	endpoint := &flight.FlightEndpoint{
		Ticket: &flight.Ticket{
			Ticket: ticket,
		},
	}
	if s.address != "" {
		endpoint.Location = []*flight.Location{{Uri: "grpc://" + s.address}}
	}

	totalRecords := int64(-1) // Unknown until scan
	if tableName == catalog.FlightsTable {
		totalRecords = int64(src.Data().Len())
	}

	return &flight.FlightInfo{
		Schema:           flight.SerializeSchema(arrowSchema, s.allocator),
		FlightDescriptor: desc,
		Endpoint:         []*flight.FlightEndpoint{endpoint},
		TotalRecords:     totalRecords,
		TotalBytes:       -1,
	}, nil
}
