package aeroscope

import (
	"context"

	"github.com/hugr-lab/aeroscope-go/auth"
)

// Authentication types re-exported from the auth package.
type (
	Authenticator    = auth.Authenticator
	SourceAuthorizer = auth.SourceAuthorizer
	Token            = auth.Token
)

// ErrUnauthenticated is the error to return from Authenticate for tokens
// that are not valid.
var ErrUnauthenticated = auth.ErrUnauthenticated

// BearerAuth creates an Authenticator from a validation function. The
// identity it returns owns the sessions the caller creates.
//
//	a := aeroscope.BearerAuth(func(token string) (string, error) {
//	    analyst, ok := analysts[token]
//	    if !ok {
//	        return "", aeroscope.ErrUnauthenticated
//	    }
//	    return analyst.Name, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return auth.BearerAuth(validateFunc)
}

// TokenAuth creates an Authenticator over a fixed token list, as read from
// the serve configuration. Tokens that name sources may only read those
// sources.
func TokenAuth(tokens []Token) Authenticator {
	return auth.TokenAuth(tokens)
}

// NoAuth returns an Authenticator that accepts any token as "anonymous".
// DO NOT use in production.
func NoAuth() Authenticator {
	return auth.NoAuth()
}

// IdentityFromContext returns the identity of the authenticated caller, or
// "" for an unauthenticated request.
func IdentityFromContext(ctx context.Context) string {
	return auth.IdentityFromContext(ctx)
}
