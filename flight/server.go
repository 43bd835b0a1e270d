// Package flight provides Flight RPC handler implementations.
package flight

import (
	"context"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go/auth"
	"github.com/hugr-lab/aeroscope-go/catalog"
)

// Server implements the Flight service handlers.
// Embeds BaseFlightServer for forward compatibility with protocol changes.
type Server struct {
	flight.BaseFlightServer

	catalog   catalog.Catalog
	sessions  *sessionRegistry
	sources   auth.SourceAuthorizer
	allocator memory.Allocator
	logger    *slog.Logger
	address   string // Server's public address for FlightEndpoint locations
}

// NewServer creates a new Flight server with the given catalog and allocator.
// The logger is used for internal logging of errors and important events.
// The address parameter specifies the server's public address for FlightEndpoint locations.
func NewServer(cat catalog.Catalog, allocator memory.Allocator, logger *slog.Logger, address string) *Server {
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		catalog:   cat,
		sessions:  newSessionRegistry(),
		allocator: allocator,
		logger:    logger,
		address:   address,
	}
}

// SetAuthenticator enables per-source checks on tickets and action bodies
// when the authenticator also implements auth.SourceAuthorizer.
func (s *Server) SetAuthenticator(a auth.Authenticator) {
	if sa, ok := a.(auth.SourceAuthorizer); ok {
		s.sources = sa
	}
}

// SetMaxSessions caps the number of open filter sessions. Zero or a
// negative n removes the cap.
func (s *Server) SetMaxSessions(n int) {
	if n < 0 {
		n = 0
	}
	s.sessions.setLimit(n)
}

// source resolves a source by name and checks the caller may read it.
func (s *Server) source(ctx context.Context, name string) (catalog.Source, error) {
	if s.sources != nil {
		if _, err := s.sources.AuthorizeSource(ctx, name); err != nil {
			return nil, status.Errorf(codes.PermissionDenied, "source %s: %v", name, err)
		}
	}
	src, err := s.catalog.Source(ctx, name)
	if err != nil {
		s.logger.Error("Failed to get source from catalog", "source", name, "error", err)
		return nil, status.Errorf(codes.Internal, "failed to get source: %v", err)
	}
	if src == nil {
		return nil, status.Errorf(codes.NotFound, "source not found: %s", name)
	}
	return src, nil
}

// Sessions returns the number of open filter sessions.
func (s *Server) Sessions() int {
	return s.sessions.len()
}

// RegisterFlightServer registers the Flight service on the provided gRPC server.
// This follows the standard gRPC service registration pattern.
func RegisterFlightServer(grpcServer *grpc.Server, flightServer *Server) {
	flight.RegisterFlightServiceServer(grpcServer, flightServer)
}
