package aeroscope

import (
	"errors"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/aeroscope-go/auth"
	"github.com/hugr-lab/aeroscope-go/catalog"
)

// ServerConfig configures the AeroSCOPE Flight service.
type ServerConfig struct {
	// Catalog holds the data sources served to dashboards.
	// REQUIRED: usually built with NewCatalogBuilder.
	Catalog catalog.Catalog

	// Auth authenticates callers. An authenticator that also implements
	// auth.SourceAuthorizer (TokenAuth does) limits the sources each
	// identity may read.
	// OPTIONAL: If nil, every request is served.
	Auth auth.Authenticator

	// Allocator backs the Arrow batches streamed by DoGet.
	// OPTIONAL: Uses memory.DefaultAllocator if nil.
	Allocator memory.Allocator

	// Logger receives lifecycle and request logs.
	// OPTIONAL: If nil, a text logger at LogLevel is built, or
	// slog.Default() is used when LogLevel is nil too.
	Logger *slog.Logger

	// LogLevel is the level of the text logger built when Logger is nil.
	// OPTIONAL.
	LogLevel *slog.Level

	// MaxMessageSize caps gRPC messages in bytes, both directions.
	// OPTIONAL: If 0, the gRPC default (4MB) applies.
	MaxMessageSize int

	// MaxSessions caps the number of open filter sessions. create_session
	// fails with ResourceExhausted once the cap is reached.
	// OPTIONAL: If 0, sessions are unlimited.
	MaxSessions int

	// Address is advertised in FlightInfo endpoint locations
	// (e.g., "localhost:50051").
	// OPTIONAL: If empty, endpoints carry no location.
	Address string
}

// ErrInvalidConfig is returned by NewServer for a ServerConfig that fails
// validation.
var ErrInvalidConfig = errors.New("invalid server config")
