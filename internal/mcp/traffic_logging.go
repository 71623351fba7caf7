package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// trafficLoggingMiddleware writes one debug record per exchange: the method,
// its params, how long the handler took, and the result or error.
// Notifications have no result, so only their params are logged.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			info := describeRequest(req)
			start := time.Now()
			result, err := next(ctx, method, req)

			attrs := []slog.Attr{
				slog.String("direction", direction),
				slog.String("method", method),
				slog.String("session_id", info.sessionID),
				slog.String("params", encodePayload(info.params)),
			}
			if !strings.HasPrefix(method, "notifications/") {
				attrs = append(attrs,
					slog.Int64("duration_ms", time.Since(start).Milliseconds()),
					slog.String("result", encodePayload(result)),
				)
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			logger.LogAttrs(ctx, slog.LevelDebug, "mcp traffic", attrs...)
			return result, err
		}
	}
}

type requestInfo struct {
	sessionID string
	params    any
}

// describeRequest reads what it can from req. Requests that arrive before the
// session is fully set up can panic on access; those fields stay empty.
func describeRequest(req sdkmcp.Request) (info requestInfo) {
	if req == nil {
		return info
	}
	defer func() { _ = recover() }()

	info.params = req.GetParams()
	if session := req.GetSession(); session != nil {
		info.sessionID = session.ID()
	}
	return info
}

func encodePayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
