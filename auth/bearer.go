package auth

import (
	"context"
	"errors"
	"slices"
)

// ErrSourceDenied is returned by TokenAuth when an identity may not read a source.
var ErrSourceDenied = errors.New("source access denied")

// bearerAuthenticator wraps a user-provided validation function.
type bearerAuthenticator struct {
	validateFunc func(token string) (identity string, err error)
}

// BearerAuth creates an Authenticator from a validation function.
//
// Example:
//
//	auth := BearerAuth(func(token string) (string, error) {
//	    user, err := validateWithMyBackend(token)
//	    if err != nil {
//	        return "", err
//	    }
//	    return user.ID, nil
//	})
func BearerAuth(validateFunc func(token string) (identity string, err error)) Authenticator {
	return &bearerAuthenticator{
		validateFunc: validateFunc,
	}
}

// Authenticate calls the user-provided validation function with the token.
func (b *bearerAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	return b.validateFunc(token)
}

// Token is one configured bearer token.
type Token struct {
	Token    string   `yaml:"token"`
	Identity string   `yaml:"identity"`
	Sources  []string `yaml:"sources,omitempty"` // empty means every source
}

// tokenAuthenticator authenticates against a fixed token list and
// authorizes per source.
type tokenAuthenticator struct {
	tokens map[string]Token
}

// TokenAuth returns an Authenticator over a fixed token list, as read from
// the server configuration. It also implements SourceAuthorizer.
func TokenAuth(tokens []Token) Authenticator {
	a := &tokenAuthenticator{tokens: make(map[string]Token, len(tokens))}
	for _, t := range tokens {
		a.tokens[t.Token] = t
	}
	return a
}

func (a *tokenAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	t, ok := a.tokens[token]
	if !ok {
		return "", ErrUnauthenticated
	}
	return t.Identity, nil
}

// AuthorizeSource implements SourceAuthorizer.
func (a *tokenAuthenticator) AuthorizeSource(ctx context.Context, source string) (context.Context, error) {
	if source == "" {
		return ctx, nil
	}
	identity := IdentityFromContext(ctx)
	for _, t := range a.tokens {
		if t.Identity != identity {
			continue
		}
		if len(t.Sources) == 0 || slices.Contains(t.Sources, source) {
			return ctx, nil
		}
	}
	return ctx, ErrSourceDenied
}
