package flight

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"
)

// Request headers read by the handlers.
const (
	// HeaderAuthorization carries "Bearer <token>".
	HeaderAuthorization = "authorization"
	// HeaderSource names the data source a client works with. Token
	// authenticators that restrict sources check it on every call.
	HeaderSource = "aeroscope-source"
	// HeaderTraceID correlates server log lines with a client request.
	// The server generates one when the client sends none.
	HeaderTraceID = "aeroscope-trace-id"
)

// RequestMeta holds the request headers of one call.
type RequestMeta struct {
	Authorization string
	Source        string
	TraceID       string
}

type metaKey struct{}

// MetaFromContext returns the request metadata stored by
// EnrichContextMetadata. ok is false for a context that was never enriched.
func MetaFromContext(ctx context.Context) (meta RequestMeta, ok bool) {
	meta, ok = ctx.Value(metaKey{}).(RequestMeta)
	return meta, ok
}

// TraceIDFromContext returns the trace ID of the request, or "".
func TraceIDFromContext(ctx context.Context) string {
	meta, _ := MetaFromContext(ctx)
	return meta.TraceID
}

// EnrichContextMetadata reads the request headers from the incoming gRPC
// metadata into ctx. An enriched context is returned unchanged, so
// interceptors and handlers may both call it.
func EnrichContextMetadata(ctx context.Context) context.Context {
	if _, ok := MetaFromContext(ctx); ok {
		return ctx
	}

	md, _ := metadata.FromIncomingContext(ctx)
	first := func(key string) string {
		if v := md.Get(key); len(v) > 0 {
			return v[0]
		}
		return ""
	}
	meta := RequestMeta{
		Authorization: first(HeaderAuthorization),
		Source:        first(HeaderSource),
		TraceID:       first(HeaderTraceID),
	}
	if meta.TraceID == "" {
		meta.TraceID = uuid.NewString()
	}
	return context.WithValue(ctx, metaKey{}, meta)
}

// OutgoingContext returns ctx with the request headers a client sends:
// the bearer token, the source it works with, and a trace ID. Empty
// fields are not sent.
func OutgoingContext(ctx context.Context, token, source, traceID string) context.Context {
	var kv []string
	if token != "" {
		kv = append(kv, HeaderAuthorization, "Bearer "+token)
	}
	if source != "" {
		kv = append(kv, HeaderSource, source)
	}
	if traceID != "" {
		kv = append(kv, HeaderTraceID, traceID)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}
