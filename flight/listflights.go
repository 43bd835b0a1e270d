package flight

import (
	"context"
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go/internal/serialize"
)

// ListFlights returns the source listing as a single FlightInfo whose ticket
// carries the listing serialized as Arrow IPC (serialize.ListingSchema) and
// compressed with ZStandard.
//
// A non-empty criteria expression is a comma-separated list of source names
// to list. Sources the caller may not read are left out.
func (s *Server) ListFlights(criteria *flight.Criteria, stream flight.FlightService_ListFlightsServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	names := criteriaSources(criteria)
	s.logger.Debug("ListFlights called", "sources", names)

	listing, err := serialize.SerializeCatalog(ctx, s.catalog, s.allocator, s.listed(ctx, names))
	if err != nil {
		s.logger.Error("Failed to serialize catalog", "error", err)
		return status.Errorf(codes.Internal, "failed to serialize catalog: %v", err)
	}

	compressed, err := serialize.CompressCatalog(listing)
	if err != nil {
		s.logger.Error("Failed to compress catalog", "error", err)
		return status.Errorf(codes.Internal, "failed to compress catalog: %v", err)
	}

	s.logger.Debug("Listing compressed",
		"uncompressed_bytes", len(listing),
		"compressed_bytes", len(compressed),
	)

	err = stream.Send(&flight.FlightInfo{
		FlightDescriptor: &flight.FlightDescriptor{
			Type: flight.DescriptorCMD,
			Cmd:  []byte("ListFlights"),
		},
		Endpoint:     []*flight.FlightEndpoint{{Ticket: &flight.Ticket{Ticket: compressed}}},
		TotalRecords: -1,
		TotalBytes:   int64(len(compressed)),
	})
	if err != nil {
		s.logger.Error("Failed to send FlightInfo", "error", err)
		return status.Errorf(codes.Internal, "failed to send flight info: %v", err)
	}
	return nil
}

// criteriaSources splits a criteria expression into source names.
func criteriaSources(criteria *flight.Criteria) []string {
	if criteria == nil || len(criteria.Expression) == 0 {
		return nil
	}
	var names []string
	for _, n := range strings.Split(string(criteria.Expression), ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// listed returns the listing filter for the requested names and the
// caller's source permissions. It returns nil when every source is listed.
func (s *Server) listed(ctx context.Context, names []string) func(string) bool {
	if len(names) == 0 && s.sources == nil {
		return nil
	}
	return func(source string) bool {
		if len(names) > 0 && !slices.Contains(names, source) {
			return false
		}
		if s.sources != nil {
			if _, err := s.sources.AuthorizeSource(ctx, source); err != nil {
				return false
			}
		}
		return true
	}
}
