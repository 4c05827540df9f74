package middleware

import (
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"vortexgames/internal/metrics"
)

// routeStatic labels requests served by the static file fallback.
const routeStatic = "static"

// Metrics counts and times every request, labelled by the matched route
// pattern rather than the raw path.
func Metrics(m *metrics.Metrics) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)
			duration := time.Since(start)

			route := routeStatic
			if v, ok := ctx.UserValue(router.MatchedRoutePathParam).(string); ok && v != "" {
				route = v
			}
			method := string(ctx.Method())
			status := strconv.Itoa(ctx.Response.StatusCode())

			m.RequestsTotal.WithLabelValues(route, method, status).Inc()
			m.RequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
		}
	}
}
