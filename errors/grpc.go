package errors

import (
	"context"
	stderrors "errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcCodes = []struct {
	err  error
	code codes.Code
}{
	{ErrNotFound, codes.NotFound},
	{ErrNotMember, codes.PermissionDenied},
	{ErrInvalidCommand, codes.InvalidArgument},
	{ErrSendFailed, codes.Aborted},
	{ErrUnavailable, codes.Unavailable},
	{ErrMatchCancelled, codes.FailedPrecondition},
	{ErrSubscriptionOverflow, codes.ResourceExhausted},
	{ErrInvalidToken, codes.Unauthenticated},
}

// MapToGRPCError converts a domain error into a gRPC status error.
// Errors that are already gRPC statuses are returned untouched.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, c := range grpcCodes {
		if stderrors.Is(err, c.err) {
			return status.Error(c.code, err.Error())
		}
	}
	switch {
	case stderrors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// FromGRPCError is the client side counterpart of MapToGRPCError.
// The returned error wraps the matching sentinel so callers can use errors.Is.
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, c := range grpcCodes {
		if st.Code() == c.code {
			return &remoteError{sentinel: c.err, message: st.Message()}
		}
	}
	switch st.Code() {
	case codes.Canceled:
		return context.Canceled
	case codes.DeadlineExceeded:
		return context.DeadlineExceeded
	}
	return err
}

type remoteError struct {
	sentinel error
	message  string
}

func (e *remoteError) Error() string { return e.message }

func (e *remoteError) Unwrap() error { return e.sentinel }
