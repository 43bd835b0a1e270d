// Package auth authenticates callers of the AeroSCOPE Flight service by
// bearer token and restricts the sources an identity may read.
package auth

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrInvalidAuthHeader is returned for an authorization header that
	// does not use the Bearer scheme.
	ErrInvalidAuthHeader = errors.New("authorization header must use Bearer scheme")
	// ErrTokenIsEmpty is returned when the bearer token is missing.
	ErrTokenIsEmpty = errors.New("authorization token is empty")
	// ErrUnauthenticated is returned when the authenticator rejects a token.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Authenticator maps a bearer token to the identity that owns the caller's
// sessions. Implementations MUST be safe for concurrent use.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity string, err error)
}

// SourceAuthorizer is implemented by an Authenticator that limits which
// sources an identity may read.
//
// AuthorizeSource is called with the identity already in ctx, once per
// call with the aeroscope-source header ("" when absent) and again for
// every source a ticket or action body names.
type SourceAuthorizer interface {
	AuthorizeSource(ctx context.Context, source string) (context.Context, error)
}

// NoAuth returns an Authenticator that accepts every token as "anonymous".
// DO NOT use in production.
func NoAuth() Authenticator {
	return noAuth{}
}

type noAuth struct{}

func (noAuth) Authenticate(context.Context, string) (string, error) {
	return "anonymous", nil
}

type identityKey struct{}

// IdentityFromContext returns the authenticated identity, or "" for an
// unauthenticated request.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey{}).(string)
	return identity
}

// WithIdentity returns ctx carrying identity.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// TokenFromAuthorizationHeader returns the token of a "Bearer <token>"
// header. The scheme is matched case-insensitively.
func TokenFromAuthorizationHeader(header string) (string, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthHeader
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", ErrTokenIsEmpty
	}
	return token, nil
}

// ValidateToken authenticates token and returns ctx carrying the identity.
// Any authenticator error is reported as ErrUnauthenticated.
func ValidateToken(ctx context.Context, token string, authenticator Authenticator) (context.Context, error) {
	if token == "" {
		return ctx, ErrTokenIsEmpty
	}
	identity, err := authenticator.Authenticate(ctx, token)
	if err != nil {
		return ctx, ErrUnauthenticated
	}
	return WithIdentity(ctx, identity), nil
}
