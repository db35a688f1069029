package server

import (
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// StreamLoggingInterceptor logs the lifetime of every server stream: one line when
// it opens, one when it ends with its final status code.
func StreamLoggingInterceptor(log *slog.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		log.Debug("Stream opened", "method", info.FullMethod)

		err := handler(srv, ss)

		attrs := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		}
		if err != nil {
			log.Warn("Stream closed with error", append(attrs, "error", err)...)
			return err
		}
		log.Debug("Stream closed", attrs...)
		return nil
	}
}
