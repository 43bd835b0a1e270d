package flight

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/aeroscope-go/dataset"
	"github.com/hugr-lab/aeroscope-go/filter"
	"github.com/hugr-lab/aeroscope-go/region"
)

var (
	// ErrSessionNotFound is returned for an unknown or closed session, and
	// for a session owned by another identity.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSourceMismatch is returned when a ticket names a session of another source.
	ErrSourceMismatch = errors.New("session belongs to another source")
)

// statusCode maps handler errors to gRPC codes. Errors caused by client
// input are InvalidArgument and unrecognized errors are Internal.
func statusCode(err error) codes.Code {
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Code()
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return codes.NotFound
	case errors.Is(err, ErrTooManySessions):
		return codes.ResourceExhausted
	case errors.Is(err, ErrSourceMismatch),
		errors.Is(err, dataset.ErrUnknownDimension),
		errors.Is(err, filter.ErrPredicateKind),
		errors.Is(err, filter.ErrInvalidRange),
		errors.Is(err, region.ErrUnknownRegion):
		return codes.InvalidArgument
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	return codes.Internal
}

// toStatus converts err to a gRPC status error with the given message prefix.
func toStatus(err error, msg string) error {
	return status.Errorf(statusCode(err), "%s: %v", msg, err)
}
