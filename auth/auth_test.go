package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestNoAuth(t *testing.T) {
	auth := NoAuth()

	for _, token := range []string{"any-token", ""} {
		identity, err := auth.Authenticate(context.Background(), token)
		if err != nil {
			t.Errorf("NoAuth should never return error, got: %v", err)
		}
		if identity != "anonymous" {
			t.Errorf("Expected identity 'anonymous', got '%s'", identity)
		}
	}
}

func TestBearerAuth(t *testing.T) {
	customError := errors.New("custom validation error")
	auth := BearerAuth(func(token string) (string, error) {
		if token == "valid-token" {
			return "user123", nil
		}
		return "", customError
	})

	identity, err := auth.Authenticate(context.Background(), "valid-token")
	if err != nil || identity != "user123" {
		t.Errorf("Authenticate(valid-token) = %q, %v", identity, err)
	}

	identity, err = auth.Authenticate(context.Background(), "invalid-token")
	if err != customError {
		t.Errorf("Expected custom error, got: %v", err)
	}
	if identity != "" {
		t.Errorf("Expected empty identity for invalid token, got '%s'", identity)
	}
}

func TestBearerAuthConcurrency(t *testing.T) {
	callCount := 0
	var mu sync.Mutex

	auth := BearerAuth(func(token string) (string, error) {
		mu.Lock()
		callCount++
		mu.Unlock()

		if token == "valid" {
			return "user", nil
		}
		return "", errors.New("invalid")
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		token := "valid"
		if i%2 == 0 {
			token = "invalid"
		}

		go func(tok string) {
			defer wg.Done()
			_, err := auth.Authenticate(ctx, tok)
			if tok == "valid" && err != nil {
				errs <- err
			}
		}(token)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent auth error: %v", err)
	}
	if callCount != 100 {
		t.Errorf("Expected 100 calls, got %d", callCount)
	}
}

func TestTokenFromAuthorizationHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"Bearer", "", ErrInvalidAuthHeader},
		{"Bearer ", "", ErrTokenIsEmpty},
		{"Basic abc", "", ErrInvalidAuthHeader},
		{"", "", ErrInvalidAuthHeader},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := TokenFromAuthorizationHeader(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	auth := TokenAuth([]Token{{Token: "secret", Identity: "analyst"}})

	ctx, err := ValidateToken(context.Background(), "secret", auth)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if got := IdentityFromContext(ctx); got != "analyst" {
		t.Errorf("identity = %q, want analyst", got)
	}

	if _, err := ValidateToken(context.Background(), "wrong", auth); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("wrong token error = %v", err)
	}
	if _, err := ValidateToken(context.Background(), "", auth); !errors.Is(err, ErrTokenIsEmpty) {
		t.Errorf("empty token error = %v", err)
	}
	if got := IdentityFromContext(context.Background()); got != "" {
		t.Errorf("identity of bare context = %q", got)
	}
}

func TestTokenAuthSources(t *testing.T) {
	auth := TokenAuth([]Token{
		{Token: "t1", Identity: "ops"},
		{Token: "t2", Identity: "guest", Sources: []string{"compilation"}},
	})
	authorizer, ok := auth.(SourceAuthorizer)
	if !ok {
		t.Fatal("TokenAuth must implement SourceAuthorizer")
	}

	tests := []struct {
		identity string
		source   string
		allowed  bool
	}{
		{"ops", "opensky", true},
		{"guest", "compilation", true},
		{"guest", "opensky", false},
		{"guest", "", true},
		{"nobody", "compilation", false},
	}
	for _, tt := range tests {
		t.Run(tt.identity+"/"+tt.source, func(t *testing.T) {
			ctx := WithIdentity(context.Background(), tt.identity)
			_, err := authorizer.AuthorizeSource(ctx, tt.source)
			if tt.allowed && err != nil {
				t.Errorf("expected access, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrSourceDenied) {
				t.Errorf("expected ErrSourceDenied, got %v", err)
			}
		})
	}
}
