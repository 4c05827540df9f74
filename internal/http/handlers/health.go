package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/valyala/fasthttp"

	httpctx "vortexgames/internal/http/ctx"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz answers "ok" while the database is reachable.
func Healthz(db Pinger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		pingCtx, cancel := context.WithTimeout(httpctx.Context(ctx), 2*time.Second)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			slog.Warn("health check failed", "error", err)
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			ctx.SetBodyString("database unavailable")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	}
}
