package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/medocs/internal/common"
)

const requestIDHeader = "x-request-id"

// UnaryLogging attaches a request id and a request-scoped logger to ctx and
// logs each call's outcome.
func UnaryLogging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		rid := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(requestIDHeader); len(v) > 0 {
				rid = v[0]
			}
		}
		if rid == "" {
			rid = uuid.NewString()
		}
		reqLogger := logger.With("request_id", rid, "method", info.FullMethod)
		ctx = common.WithLogger(common.WithRequestID(ctx, rid), reqLogger)

		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			reqLogger.Warn("grpc.call.failed", "code", status.Code(err).String(), "error", err, "elapsed_ms", time.Since(start).Milliseconds())
			return resp, err
		}
		reqLogger.Info("grpc.call.ok", "elapsed_ms", time.Since(start).Milliseconds())
		return resp, nil
	}
}
