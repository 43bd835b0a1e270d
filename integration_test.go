package aeroscope_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go"
	"github.com/hugr-lab/aeroscope-go/catalog"
	"github.com/hugr-lab/aeroscope-go/dataset/datasettest"
	"github.com/hugr-lab/aeroscope-go/filter"
	aeroflight "github.com/hugr-lab/aeroscope-go/flight"
	"github.com/hugr-lab/aeroscope-go/internal/msgpack"
)

type testServer struct {
	address string
	server  *aeroflight.Server
	grpc    *grpc.Server
	client  flight.Client
}

func testCatalog(t *testing.T) catalog.Catalog {
	t.Helper()
	cat, err := aeroscope.NewCatalogBuilder().
		Logger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Source("compilation", "Compiled flights", datasettest.Table()).
		Source("opensky", "OpenSky flights", datasettest.FlightsTable()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return cat
}

// newTestServer serves config on a random local port the way an
// application embeds the package.
func newTestServer(t *testing.T, config aeroscope.ServerConfig) *testServer {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create listener: %v", err)
	}
	config.Address = lis.Addr().String()
	if config.Logger == nil && config.LogLevel == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	grpcServer := grpc.NewServer(aeroscope.ServerOptions(config)...)
	srv, err := aeroscope.NewServer(grpcServer, config)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	client, err := flight.NewClientWithMiddleware(config.Address, nil, nil,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ts := &testServer{address: config.Address, server: srv, grpc: grpcServer, client: client}
	t.Cleanup(ts.stop)
	return ts
}

func (ts *testServer) stop() {
	if ts.client != nil {
		ts.client.Close()
		ts.client = nil
	}
	ts.grpc.GracefulStop()
}

// rows streams a ticket and counts the received rows.
func (ts *testServer) rows(ctx context.Context, ticket []byte) (int64, error) {
	stream, err := ts.client.DoGet(ctx, &flight.Ticket{Ticket: ticket})
	if err != nil {
		return 0, err
	}
	// Handler errors arrive with the first message.
	first, err := stream.Recv()
	if err != nil {
		return 0, err
	}
	reader, err := flight.NewRecordReader(&replayStream{first: first, FlightService_DoGetClient: stream})
	if err != nil {
		return 0, err
	}
	defer reader.Release()

	var n int64
	for reader.Next() {
		n += reader.RecordBatch().NumRows()
	}
	return n, reader.Err()
}

// replayStream hands out an already received message before reading on.
type replayStream struct {
	first *flight.FlightData
	flight.FlightService_DoGetClient
}

func (r *replayStream) Recv() (*flight.FlightData, error) {
	if r.first != nil {
		fd := r.first
		r.first = nil
		return fd, nil
	}
	return r.FlightService_DoGetClient.Recv()
}

func (ts *testServer) ticketRows(t *testing.T, ctx context.Context, td aeroflight.TicketData) (int64, error) {
	t.Helper()
	ticket, err := aeroflight.EncodeTicket(td)
	if err != nil {
		t.Fatal(err)
	}
	return ts.rows(ctx, ticket)
}

func (ts *testServer) action(ctx context.Context, typ string, body, out any) error {
	data, err := msgpack.Encode(body)
	if err != nil {
		return err
	}
	stream, err := ts.client.DoAction(ctx, &flight.Action{Type: typ, Body: data})
	if err != nil {
		return err
	}
	result, err := stream.Recv()
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return msgpack.Decode(result.GetBody(), out)
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)
}

func TestServerDiscovery(t *testing.T) {
	ts := newTestServer(t, aeroscope.ServerConfig{Catalog: testCatalog(t)})
	ctx := context.Background()

	stream, err := ts.client.ListFlights(ctx, &flight.Criteria{})
	if err != nil {
		t.Fatalf("ListFlights failed: %v", err)
	}
	var infos int
	for {
		_, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Recv failed: %v", err)
		}
		infos++
	}
	if infos != 1 {
		t.Errorf("Expected 1 catalog listing, got %d", infos)
	}

	info, err := ts.client.GetFlightInfo(ctx, &flight.FlightDescriptor{
		Type: flight.DescriptorPATH,
		Path: []string{"compilation", catalog.FlightsTable},
	})
	if err != nil {
		t.Fatalf("GetFlightInfo failed: %v", err)
	}
	if info.TotalRecords != 4 {
		t.Errorf("Expected 4 total records, got %d", info.TotalRecords)
	}
	if len(info.Endpoint) != 1 {
		t.Fatalf("Expected 1 endpoint, got %d", len(info.Endpoint))
	}
	if loc := info.Endpoint[0].Location; len(loc) != 1 || loc[0].Uri != "grpc://"+ts.address {
		t.Errorf("Unexpected endpoint location %v", loc)
	}

	n, err := ts.rows(ctx, info.Endpoint[0].Ticket.Ticket)
	if err != nil {
		t.Fatalf("DoGet failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 rows, got %d", n)
	}
}

func TestServerFilteredScan(t *testing.T) {
	ts := newTestServer(t, aeroscope.ServerConfig{Catalog: testCatalog(t)})
	ctx := context.Background()

	tests := []struct {
		name    string
		filters *filter.Spec
		want    int64
	}{
		{name: "Unfiltered", want: 4},
		{name: "Airline", filters: &filter.Spec{Values: map[string][]string{"airline": {"AF"}}}, want: 3},
		{name: "Distance", filters: &filter.Spec{Distance: &filter.Range{Min: 1000, Max: 2500}}, want: 2},
		{name: "NoMatch", filters: &filter.Spec{Values: map[string][]string{"airline": {"BA"}}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ts.ticketRows(t, ctx, aeroflight.TicketData{
				Source:  "compilation",
				Table:   catalog.FlightsTable,
				Filters: tt.filters,
			})
			if err != nil {
				t.Fatalf("DoGet failed: %v", err)
			}
			if n != tt.want {
				t.Errorf("Expected %d rows, got %d", tt.want, n)
			}
		})
	}
}

func TestServerSession(t *testing.T) {
	ts := newTestServer(t, aeroscope.ServerConfig{Catalog: testCatalog(t)})
	ctx := context.Background()

	var sess aeroflight.SessionResponse
	if err := ts.action(ctx, aeroflight.ActionCreateSession, aeroflight.CreateSessionRequest{Source: "opensky"}, &sess); err != nil {
		t.Fatalf("create_session failed: %v", err)
	}
	if sess.Rows != 4 {
		t.Errorf("Expected 4 rows in a new session, got %d", sess.Rows)
	}
	if ts.server.Sessions() != 1 {
		t.Errorf("Expected 1 live session, got %d", ts.server.Sessions())
	}

	err := ts.action(ctx, aeroflight.ActionSetFilter, aeroflight.SetFilterRequest{
		Session: sess.Session,
		Filters: filter.Spec{Values: map[string][]string{"flight_type": {"international"}}},
	}, &sess)
	if err != nil {
		t.Fatalf("set_filter failed: %v", err)
	}
	if sess.Rows != 3 {
		t.Errorf("Expected 3 international rows, got %d", sess.Rows)
	}

	n, err := ts.ticketRows(t, ctx, aeroflight.TicketData{
		Source:  "opensky",
		Table:   catalog.FlightsTable,
		Session: sess.Session,
	})
	if err != nil {
		t.Fatalf("DoGet failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 session rows, got %d", n)
	}

	if err := ts.action(ctx, aeroflight.ActionCloseSession, aeroflight.SessionRequest{Session: sess.Session}, nil); err != nil {
		t.Fatalf("close_session failed: %v", err)
	}
	if ts.server.Sessions() != 0 {
		t.Errorf("Expected no live sessions, got %d", ts.server.Sessions())
	}
}

func TestServerMaxSessions(t *testing.T) {
	ts := newTestServer(t, aeroscope.ServerConfig{Catalog: testCatalog(t), MaxSessions: 1})
	ctx := context.Background()

	var sess aeroflight.SessionResponse
	if err := ts.action(ctx, aeroflight.ActionCreateSession, aeroflight.CreateSessionRequest{Source: "compilation"}, &sess); err != nil {
		t.Fatalf("create_session failed: %v", err)
	}
	err := ts.action(ctx, aeroflight.ActionCreateSession, aeroflight.CreateSessionRequest{Source: "opensky"}, nil)
	if status.Code(err) != codes.ResourceExhausted {
		t.Errorf("Expected ResourceExhausted past the limit, got %v", err)
	}

	if err := ts.action(ctx, aeroflight.ActionCloseSession, aeroflight.SessionRequest{Session: sess.Session}, nil); err != nil {
		t.Fatalf("close_session failed: %v", err)
	}
	if err := ts.action(ctx, aeroflight.ActionCreateSession, aeroflight.CreateSessionRequest{Source: "opensky"}, nil); err != nil {
		t.Errorf("Expected a session after closing the first, got %v", err)
	}
}

// TestAuthentication verifies that bearer token authentication works correctly.
func TestAuthentication(t *testing.T) {
	ts := newTestServer(t, aeroscope.ServerConfig{
		Catalog: testCatalog(t),
		Auth: aeroscope.TokenAuth([]aeroscope.Token{
			{Token: "admin-token", Identity: "admin"},
			{Token: "guest-token", Identity: "guest", Sources: []string{"compilation"}},
		}),
	})

	summary := aeroflight.TicketData{Source: "opensky", Table: catalog.SummaryTable}

	tests := []struct {
		name string
		ctx  context.Context
		td   aeroflight.TicketData
		want codes.Code
	}{
		{name: "NoToken", ctx: context.Background(), td: summary, want: codes.Unauthenticated},
		{name: "InvalidToken", ctx: withToken("invalid-token"), td: summary, want: codes.Unauthenticated},
		{name: "ValidToken", ctx: withToken("admin-token"), td: summary, want: codes.OK},
		{name: "GuestAllowedSource", ctx: withToken("guest-token"), td: aeroflight.TicketData{Source: "compilation", Table: catalog.RoutesTable}, want: codes.OK},
		{name: "GuestDeniedSource", ctx: withToken("guest-token"), td: summary, want: codes.PermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.ticketRows(t, tt.ctx, tt.td)
			if got := status.Code(err); got != tt.want {
				t.Errorf("Expected %v, got %v (%v)", tt.want, got, err)
			}
		})
	}
}

func TestNewServerInvalidConfig(t *testing.T) {
	grpcServer := grpc.NewServer()
	defer grpcServer.Stop()

	if _, err := aeroscope.NewServer(grpcServer, aeroscope.ServerConfig{}); err == nil {
		t.Fatal("Expected error for nil catalog")
	}
}

func TestServerLogLevel(t *testing.T) {
	level := slog.LevelWarn
	ts := newTestServer(t, aeroscope.ServerConfig{
		Catalog:  testCatalog(t),
		LogLevel: &level,
	})

	n, err := ts.ticketRows(t, context.Background(), aeroflight.TicketData{Source: "compilation", Table: catalog.DistanceTable})
	if err != nil {
		t.Fatalf("DoGet failed: %v", err)
	}
	if n == 0 {
		t.Error("Expected histogram rows")
	}
}
