package web

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

const (
	HeaderRequestID = "X-Request-ID"

	userValueRequestID = "request_id"
	userValueUser      = "user"
)

// RequestID tags the request with an id taken from X-Request-ID or freshly
// generated, echoes it in the response and logs the request when done.
func RequestID(logger logging.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			id := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID)))
			if id == "" {
				id = uuid.NewString()
			}
			ctx.SetUserValue(userValueRequestID, id)
			ctx.Response.Header.Set(HeaderRequestID, id)

			start := time.Now()
			next(ctx)

			logger.Debug(logging.ContextWithRequestID(context.Background(), id), "request served",
				"method", string(ctx.Method()),
				"path", string(ctx.Path()),
				"status", ctx.Response.StatusCode(),
				"duration", time.Since(start).String(),
			)
		}
	}
}

// requestContext derives a stdlib context bounded by timeout and carrying
// the request id, for calls into services.
func requestContext(ctx *fasthttp.RequestCtx, timeout time.Duration) (context.Context, context.CancelFunc) {
	base := context.Background()
	if id, ok := ctx.UserValue(userValueRequestID).(string); ok {
		base = logging.ContextWithRequestID(base, id)
	}
	if timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, timeout)
}
