package flight

import (
	"bytes"
	"context"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/engine"
	"github.com/hugr-lab/aeroscope-go/filter"
	"github.com/hugr-lab/aeroscope-go/internal/msgpack"
	"github.com/hugr-lab/aeroscope-go/internal/recovery"
	"github.com/hugr-lab/aeroscope-go/region"
	"github.com/hugr-lab/aeroscope-go/summary"
)

// Action types served by DoAction.
const (
	ActionCreateSession = "create_session"
	ActionCloseSession  = "close_session"
	ActionSetFilter     = "set_filter"
	ActionSelectRegions = "select_regions"
	ActionReset         = "reset"
	ActionOptions       = "options"
	ActionSummaryCSV    = "summary_csv"
	ActionExpandRegion  = "expand_region"
	ActionListRegions   = "list_regions"
)

// CreateSessionRequest is the body of create_session.
type CreateSessionRequest struct {
	Source string `msgpack:"source"`
}

// SessionRequest is the body of close_session and reset.
type SessionRequest struct {
	Session string `msgpack:"session"`
}

// SetFilterRequest is the body of set_filter. Dimensions named in Filters
// replace their predicate (an empty value list clears it); others keep theirs.
type SetFilterRequest struct {
	Session string      `msgpack:"session"`
	Filters filter.Spec `msgpack:"filters"`
}

// SelectRegionsRequest is the body of select_regions.
type SelectRegionsRequest struct {
	Session   string   `msgpack:"session"`
	Dimension string   `msgpack:"dimension"`
	Regions   []string `msgpack:"regions"`
}

// OptionsRequest is the body of options. An empty Dimension returns the
// options of every dimension the source carries.
type OptionsRequest struct {
	Session   string `msgpack:"session"`
	Dimension string `msgpack:"dimension,omitempty"`
}

// SummaryRequest is the body of summary_csv: either a session, or a source
// with optional one-shot filters.
type SummaryRequest struct {
	Session string       `msgpack:"session,omitempty"`
	Source  string       `msgpack:"source,omitempty"`
	Filters *filter.Spec `msgpack:"filters,omitempty"`
}

// RegionsRequest is the body of expand_region.
type RegionsRequest struct {
	Regions []string `msgpack:"regions"`
}

// SessionResponse is the result of every action that changes a session.
type SessionResponse struct {
	Session string      `msgpack:"session"`
	Source  string      `msgpack:"source"`
	Rows    int         `msgpack:"rows"`
	Filters filter.Spec `msgpack:"filters"`
	Regions []string    `msgpack:"regions,omitempty"`
}

// OptionsResponse is the result of options, keyed by dimension name.
type OptionsResponse struct {
	Options map[string][]string `msgpack:"options"`
}

// RegionsResponse is the result of expand_region and list_regions.
type RegionsResponse struct {
	Regions   []string `msgpack:"regions,omitempty"`
	Countries []string `msgpack:"countries,omitempty"`
}

// DoAction executes server actions. Bodies and results are MessagePack,
// except the summary_csv result which is CSV text. Panics in handlers are
// recovered and reported as Internal.
func (s *Server) DoAction(action *flight.Action, stream flight.FlightService_DoActionServer) error {
	ctx := EnrichContextMetadata(stream.Context())

	s.logger.Debug("DoAction called",
		"type", action.GetType(),
		"body_size", len(action.GetBody()),
	)

	return recovery.RecoverToError(s.logger, "DoAction "+action.GetType(), func() error {
		body, err := s.handleAction(ctx, action)
		if err != nil {
			return err
		}
		if err := stream.Send(&flight.Result{Body: body}); err != nil {
			s.logger.Error("Failed to send result", "type", action.GetType(), "error", err)
			return status.Errorf(codes.Internal, "failed to send result: %v", err)
		}
		return nil
	})
}

func (s *Server) handleAction(ctx context.Context, action *flight.Action) ([]byte, error) {
	switch action.GetType() {
	case ActionCreateSession:
		var req CreateSessionRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		return s.handleCreateSession(ctx, req)

	case ActionCloseSession:
		var req SessionRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		if err := s.sessions.close(ctx, req.Session); err != nil {
			return nil, toStatus(err, "close session")
		}
		s.logger.Info("Session closed", "session", req.Session)
		return encodeResult(SessionResponse{Session: req.Session})

	case ActionSetFilter:
		var req SetFilterRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		return s.withSession(ctx, req.Session, func(e *engine.Engine) error {
			if err := e.SetSpec(req.Filters); err != nil {
				return err
			}
			e.Apply()
			return nil
		})

	case ActionSelectRegions:
		var req SelectRegionsRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		return s.withSession(ctx, req.Session, func(e *engine.Engine) error {
			d, err := dataset.ParseDimension(req.Dimension)
			if err != nil {
				return err
			}
			if err := e.SelectRegions(d, req.Regions...); err != nil {
				return err
			}
			e.Apply()
			return nil
		})

	case ActionReset:
		var req SessionRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		return s.withSession(ctx, req.Session, func(e *engine.Engine) error {
			e.Reset()
			return nil
		})

	case ActionOptions:
		var req OptionsRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		return s.handleOptions(ctx, req)

	case ActionSummaryCSV:
		var req SummaryRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		return s.handleSummaryCSV(ctx, req)

	case ActionExpandRegion:
		var req RegionsRequest
		if err := decodeBody(action, &req); err != nil {
			return nil, err
		}
		countries, err := region.Expand(req.Regions...)
		if err != nil {
			return nil, toStatus(err, "expand region")
		}
		return encodeResult(RegionsResponse{Regions: req.Regions, Countries: countries})

	case ActionListRegions:
		return encodeResult(RegionsResponse{Regions: region.Labels()})

	default:
		return nil, status.Errorf(codes.Unimplemented, "unknown action type: %s", action.GetType())
	}
}

func (s *Server) handleCreateSession(ctx context.Context, req CreateSessionRequest) ([]byte, error) {
	src, err := s.source(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.create(ctx, src, engine.WithLogger(s.logger))
	if err != nil {
		s.logger.Warn("Session refused", "source", src.Name(), "sessions", s.sessions.len(), "error", err)
		return nil, toStatus(err, "create_session")
	}

	s.logger.Info("Session created",
		"session", sess.id,
		"source", src.Name(),
		"owner", sess.owner,
		"trace_id", TraceIDFromContext(ctx),
	)

	var resp SessionResponse
	_ = sess.do(func(e *engine.Engine) error {
		resp = sessionResponse(sess, e)
		return nil
	})
	return encodeResult(resp)
}

// withSession runs fn on a session's engine and reports the resulting state.
func (s *Server) withSession(ctx context.Context, id string, fn func(e *engine.Engine) error) ([]byte, error) {
	sess, err := s.sessions.get(ctx, id)
	if err != nil {
		return nil, toStatus(err, "session "+id)
	}

	var resp SessionResponse
	err = sess.do(func(e *engine.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		resp = sessionResponse(sess, e)
		return nil
	})
	if err != nil {
		return nil, toStatus(err, "session "+id)
	}

	s.logger.Debug("Session updated",
		"session", id,
		"rows", resp.Rows,
		"filters", len(resp.Filters.Values),
	)
	return encodeResult(resp)
}

func sessionResponse(sess *session, e *engine.Engine) SessionResponse {
	resp := SessionResponse{
		Session: sess.id,
		Source:  sess.source.Name(),
		Rows:    e.View().Len(),
		Filters: e.State().Spec(),
	}
	for _, d := range []dataset.Dimension{dataset.DepartureCountry, dataset.ArrivalCountry} {
		resp.Regions = append(resp.Regions, e.SelectedRegions(d)...)
	}
	return resp
}

func (s *Server) handleOptions(ctx context.Context, req OptionsRequest) ([]byte, error) {
	sess, err := s.sessions.get(ctx, req.Session)
	if err != nil {
		return nil, toStatus(err, "session "+req.Session)
	}

	resp := OptionsResponse{Options: make(map[string][]string)}
	err = sess.do(func(e *engine.Engine) error {
		if req.Dimension != "" {
			d, err := dataset.ParseDimension(req.Dimension)
			if err != nil {
				return err
			}
			resp.Options[d.String()] = e.AvailableOptions(d)
			return nil
		}
		for _, d := range dataset.CategoricalDimensions() {
			if e.Table().HasDimension(d) {
				resp.Options[d.String()] = e.AvailableOptions(d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, toStatus(err, "options")
	}
	return encodeResult(resp)
}

func (s *Server) handleSummaryCSV(ctx context.Context, req SummaryRequest) ([]byte, error) {
	var agg *summary.Aggregate
	if req.Session != "" {
		sess, err := s.sessions.get(ctx, req.Session)
		if err != nil {
			return nil, toStatus(err, "session "+req.Session)
		}
		_ = sess.do(func(e *engine.Engine) error {
			agg = e.Summarize()
			return nil
		})
	} else {
		src, err := s.source(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		var sp filter.Spec
		if req.Filters != nil {
			sp = *req.Filters
		}
		st, err := filter.ForSpec(src.Data(), sp)
		if err != nil {
			return nil, toStatus(err, "summary filters")
		}
		agg = summary.Summarize(st.Apply(src.Data()))
	}

	var buf bytes.Buffer
	if err := agg.WriteCSV(&buf); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to write summary: %v", err)
	}
	return buf.Bytes(), nil
}

func decodeBody(action *flight.Action, v any) error {
	if err := msgpack.Decode(action.GetBody(), v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid %s body: %v", action.GetType(), err)
	}
	return nil
}

func encodeResult(v any) ([]byte, error) {
	data, err := msgpack.Encode(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode result: %v", err)
	}
	return data, nil
}
