package flight

import (
	"context"
	"errors"
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go/engine"
	"github.com/hugr-lab/aeroscope-go/internal/recovery"
)

// DoGet streams a table of a source as Arrow IPC. The ticket, built with
// EncodeTicket, names the source and table and scans under either a live
// session or one-shot filters. Cancelling the call stops the stream
// between batches.
func (s *Server) DoGet(ticket *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	td, err := DecodeTicket(ticket.GetTicket())
	if err != nil {
		s.logger.Error("Failed to decode ticket", "error", err, "trace_id", TraceIDFromContext(ctx))
		return status.Errorf(codes.InvalidArgument, "invalid ticket: %v", err)
	}

	log := s.logger.With(
		"source", td.Source,
		"table", td.Table,
		"trace_id", TraceIDFromContext(ctx),
	)
	log.Debug("DoGet called", "session", td.Session, "columns", td.Columns, "limit", td.Limit)

	reader, err := s.executeTableScan(ctx, td)
	if err != nil {
		return err
	}
	defer reader.Release()

	writer := flight.NewRecordWriter(stream, ipc.WithSchema(reader.Schema()))
	defer writer.Close()

	var batches int
	var rows int64
	for reader.Next() {
		if ctx.Err() != nil {
			log.Debug("DoGet cancelled by client", "batches_sent", batches, "rows_sent", rows)
			return status.Error(codes.Canceled, "request cancelled")
		}
		batch := reader.RecordBatch()
		if err := writer.Write(batch); err != nil {
			log.Error("Failed to write record batch", "batch", batches+1, "error", err)
			return status.Errorf(codes.Internal, "failed to write batch %d: %v", batches+1, err)
		}
		batches++
		rows += batch.NumRows()
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		log.Error("Scan failed while streaming", "batches_sent", batches, "error", err)
		return toStatus(err, "scan")
	}

	log.Debug("DoGet completed", "batches_sent", batches, "rows_sent", rows)
	return nil
}

// executeTableScan resolves the ticket to a table and scans it.
func (s *Server) executeTableScan(ctx context.Context, ticketData *TicketData) (array.RecordReader, error) {
	src, err := s.source(ctx, ticketData.Source)
	if err != nil {
		return nil, err
	}

	table, err := src.Table(ctx, ticketData.Table)
	if err != nil {
		s.logger.Error("Failed to get table from source",
			"source", ticketData.Source,
			"table", ticketData.Table,
			"error", err,
		)
		return nil, status.Errorf(codes.Internal, "failed to get table: %v", err)
	}
	if table == nil {
		return nil, status.Errorf(codes.NotFound, "table not found: %s.%s", ticketData.Source, ticketData.Table)
	}

	scanOpts, err := ticketData.ScanOptions(src.Data())
	if err != nil {
		return nil, toStatus(err, "invalid ticket filters")
	}
	scanOpts.Allocator = s.allocator

	scan := func() (array.RecordReader, error) {
		return table.Scan(ctx, scanOpts)
	}

	var reader array.RecordReader
	if ticketData.Session != "" {
		sess, err := s.sessions.get(ctx, ticketData.Session)
		if err != nil {
			return nil, toStatus(err, "ticket session")
		}
		if sess.source.Name() != src.Name() {
			return nil, toStatus(ErrSourceMismatch, "ticket session")
		}
		err = sess.do(func(e *engine.Engine) error {
			scanOpts.Session = e
			reader, err = recovery.RecoverToValue(s.logger, "Scan", scan)
			return err
		})
		if err != nil {
			return nil, s.scanFailed(ticketData, err)
		}
	} else {
		reader, err = recovery.RecoverToValue(s.logger, "Scan", scan)
		if err != nil {
			return nil, s.scanFailed(ticketData, err)
		}
	}

	// Tables project columns themselves, so the reader must match the
	// projected schema.
	want := table.ArrowSchema(scanOpts.Columns)
	if !want.Equal(reader.Schema()) {
		reader.Release()
		s.logger.Error("RecordReader schema does not match table schema",
			"source", ticketData.Source,
			"table", ticketData.Table,
			"table_schema_fields", want.NumFields(),
			"reader_schema_fields", reader.Schema().NumFields(),
		)
		return nil, status.Errorf(codes.Internal,
			"schema mismatch: table has %d fields, reader has %d fields",
			want.NumFields(), reader.Schema().NumFields())
	}

	return reader, nil
}

func (s *Server) scanFailed(ticketData *TicketData, err error) error {
	s.logger.Error("Table scan failed",
		"source", ticketData.Source,
		"table", ticketData.Table,
		"error", err,
	)
	return toStatus(err, "table scan failed")
}
