// Package aeroscope provides a high-level API for serving aviation emission
// datasets over Apache Arrow Flight.
//
// A dataset is an immutable table of flights, each with categorical
// dimensions (airports, countries, continents, airline, aircraft, flight
// type), a distance, and summable metrics (CO2, ASK, seats, flights). The
// server exposes every loaded dataset as a source with five tables:
//   - flights: the filtered rows with their route geometry
//   - summary: metric totals by range band (short, medium, long)
//   - routes: origin-destination pairs with aggregated metrics
//   - distance: a distance histogram per metric
//   - options: the values each dimension can still take
//
// Filters are sent either once in a ticket or kept in a server-side session
// driven through DoAction (create_session, set_filter, select_regions,
// reset, options, summary_csv). A session recomputes its view from the base
// table on every change and keeps the options of changed dimensions so a
// selection can still be widened.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "log"
//	    "net"
//
//	    "google.golang.org/grpc"
//
//	    "github.com/hugr-lab/aeroscope-go"
//	    "github.com/hugr-lab/aeroscope-go/dataset"
//	)
//
//	func main() {
//	    flights, err := dataset.Open("compilation.csv", dataset.CompilationColumns, nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    cat, _ := aeroscope.NewCatalogBuilder().
//	        Source("compilation", "Yearly compilation", flights).
//	        Build()
//
//	    config := aeroscope.ServerConfig{Catalog: cat, Address: "localhost:50051"}
//	    grpcServer := grpc.NewServer(aeroscope.ServerOptions(config)...)
//	    if _, err := aeroscope.NewServer(grpcServer, config); err != nil {
//	        log.Fatal(err)
//	    }
//	    lis, _ := net.Listen("tcp", ":50051")
//	    log.Println("AeroSCOPE server listening on :50051")
//	    grpcServer.Serve(lis)
//	}
//
// # Architecture
//
//   - dataset: loading and the immutable base table
//   - filter: predicates, filter state, and SQL encoding
//   - region: country groups for region selection
//   - summary: range band, route and histogram aggregation
//   - engine: the incremental filter session
//   - catalog: sources and their Arrow tables
//   - flight: the Flight service
//   - sqlstore: DuckDB storage of the same tables
//
// # Server Lifecycle
//
// The package registers Flight service handlers on a user-provided grpc.Server
// but does NOT manage server lifecycle (start/stop/listen). This gives users
// full control over TLS configuration and graceful shutdown via
// grpcServer.GracefulStop().
//
// # Authentication
//
// Bearer token authentication is supported via the BearerAuth and TokenAuth
// helpers. Tokens configured with TokenAuth may be limited to some sources:
//
//	auth := aeroscope.TokenAuth([]aeroscope.Token{
//	    {Token: "secret-api-key", Identity: "analyst"},
//	    {Token: "guest-key", Identity: "guest", Sources: []string{"compilation"}},
//	})
//
// Sessions belong to the identity that created them. ServerConfig.MaxSessions
// caps how many may be open at once; creating one past the cap fails with
// codes.ResourceExhausted until another is closed.
//
// Clients name the source they work with in the "aeroscope-source" header
// and may send "aeroscope-trace-id" to correlate server logs. The
// flight.OutgoingContext helper sets both along with the bearer token.
//
// # Logging
//
// The package uses log/slog for all internal logging. Pass ServerConfig.Logger
// or ServerConfig.LogLevel, or configure slog.SetDefault().
//
// # Memory Management
//
// Arrow uses manual reference counting. Callers MUST call Release() on
// RecordReaders returned by table scans.
package aeroscope
