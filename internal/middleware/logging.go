package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LogAttrser is implemented by response messages that add ledger details
// (created IDs, plan sizes) to the RPC log line.
type LogAttrser interface {
	LogAttrs() []any
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, result code, duration and the response's own
// attributes. Caller mistakes log at warn, server failures at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", procedure,
				"code", codeLabel(err),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err == nil:
				if resp != nil {
					if a, ok := resp.Any().(LogAttrser); ok {
						attrs = append(attrs, a.LogAttrs()...)
					}
				}
				slog.InfoContext(ctx, "RPC ok", attrs...)
			case isClientError(connect.CodeOf(err)):
				slog.WarnContext(ctx, "RPC rejected", append(attrs, "error", err)...)
			default:
				slog.ErrorContext(ctx, "RPC error", append(attrs, "error", err)...)
			}

			return resp, err
		}
	}
}

// isClientError reports whether code blames the request rather than the server.
func isClientError(code connect.Code) bool {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodeFailedPrecondition, connect.CodeCanceled:
		return true
	}
	return false
}
