package aeroscope

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc"

	"github.com/hugr-lab/aeroscope-go/flight"
)

// NewServer validates config and registers the AeroSCOPE Flight service
// on grpcServer. It returns the handler so callers can inspect open
// sessions; serving and stopping stay with the caller.
//
// Authentication and message limits are gRPC server options, so build
// grpcServer from ServerOptions with the same config:
//
//	grpcServer := grpc.NewServer(aeroscope.ServerOptions(config)...)
//	if _, err := aeroscope.NewServer(grpcServer, config); err != nil {
//	    return err
//	}
//	return grpcServer.Serve(lis)
func NewServer(grpcServer *grpc.Server, config ServerConfig) (*flight.Server, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	allocator := config.Allocator
	if allocator == nil {
		allocator = memory.DefaultAllocator
	}

	logger := configLogger(config)

	flightServer := flight.NewServer(config.Catalog, allocator, logger, config.Address)
	flightServer.SetAuthenticator(config.Auth)
	flightServer.SetMaxSessions(config.MaxSessions)

	flight.RegisterFlightServer(grpcServer, flightServer)

	logger.Info("AeroSCOPE Flight server registered",
		"has_auth", config.Auth != nil,
		"max_message_size", config.MaxMessageSize,
		"max_sessions", config.MaxSessions,
		"address", config.Address,
	)

	return flightServer, nil
}

// configLogger returns config.Logger, or a text logger at config.LogLevel.
func configLogger(config ServerConfig) *slog.Logger {
	if config.Logger != nil {
		return config.Logger
	}
	if config.LogLevel != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *config.LogLevel}))
	}
	return slog.Default()
}

// validateConfig checks that required ServerConfig fields are valid.
func validateConfig(config ServerConfig) error {
	if config.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if config.MaxMessageSize < 0 {
		return fmt.Errorf("max message size must be non-negative, got %d", config.MaxMessageSize)
	}
	if config.MaxSessions < 0 {
		return fmt.Errorf("max sessions must be non-negative, got %d", config.MaxSessions)
	}
	return nil
}

// ServerOptions returns the gRPC server options config asks for: the
// authentication interceptors when Auth is set and the message size limits
// when MaxMessageSize is positive.
func ServerOptions(config ServerConfig) []grpc.ServerOption {
	var opts []grpc.ServerOption

	if config.Auth != nil {
		opts = append(opts,
			grpc.UnaryInterceptor(flight.UnaryServerInterceptor(config.Auth)),
			grpc.StreamInterceptor(flight.StreamServerInterceptor(config.Auth)),
		)
	}

	if config.MaxMessageSize > 0 {
		opts = append(opts,
			grpc.MaxRecvMsgSize(config.MaxMessageSize),
			grpc.MaxSendMsgSize(config.MaxMessageSize),
		)
	}

	return opts
}
