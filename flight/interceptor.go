package flight

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go/auth"
)

// UnaryServerInterceptor authenticates unary calls (GetFlightInfo,
// GetSchema) with authenticator. A nil authenticator lets every call
// through.
func UnaryServerInterceptor(authenticator auth.Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := authenticate(ctx, authenticator)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor authenticates streaming calls (ListFlights,
// DoGet, DoAction) with authenticator. A nil authenticator lets every
// call through.
func StreamServerInterceptor(authenticator auth.Authenticator) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := authenticate(ss.Context(), authenticator)
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: ctx})
	}
}

// authenticate returns ctx enriched with the request metadata and the
// caller's identity. The source header is checked when authenticator is
// also an auth.SourceAuthorizer.
func authenticate(ctx context.Context, authenticator auth.Authenticator) (context.Context, error) {
	ctx = EnrichContextMetadata(ctx)
	if authenticator == nil {
		return ctx, nil
	}
	meta, _ := MetaFromContext(ctx)

	token, err := auth.TokenFromAuthorizationHeader(meta.Authorization)
	if err != nil {
		return ctx, status.Error(codes.Unauthenticated, err.Error())
	}
	if ctx, err = auth.ValidateToken(ctx, token, authenticator); err != nil {
		return ctx, status.Error(codes.Unauthenticated, err.Error())
	}

	if sa, ok := authenticator.(auth.SourceAuthorizer); ok {
		if ctx, err = sa.AuthorizeSource(ctx, meta.Source); err != nil {
			return ctx, status.Errorf(codes.PermissionDenied, "source %s: %v", meta.Source, err)
		}
	}
	return ctx, nil
}

// authenticatedStream is a server stream carrying the authenticated context.
type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}
