// Package recovery turns panics in Flight RPC handlers into gRPC errors.
// An engine panic on a bad dimension must fail the request, not the server.
package recovery

import (
	"log/slog"
	"runtime/debug"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RecoverToValue runs fn and returns its results. A panic in fn is logged
// with its stack and returned as an Internal status with the zero value.
//
//	reader, err := recovery.RecoverToValue(logger, "Scan", func() (array.RecordReader, error) {
//	    return table.Scan(ctx, opts)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()),
		)
		var zero T
		result, err = zero, status.Errorf(codes.Internal, "%s panicked: %v", operation, r)
	}()
	return fn()
}

// RecoverToError is RecoverToValue for handlers that only return an error.
func RecoverToError(logger *slog.Logger, operation string, fn func() error) error {
	_, err := RecoverToValue(logger, operation, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
