package handlers

import (
	"bytes"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/valyala/fasthttp"
)

// PrometheusMetrics exposes the gathered metrics in the text format.
// Repeated ?name= parameters restrict the output to those families.
func PrometheusMetrics(g prometheus.Gatherer) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		metricFamilies, err := g.Gather()
		if err != nil {
			internalError(ctx, "gather metrics", err)
			return
		}

		wanted := map[string]bool{}
		for _, v := range ctx.QueryArgs().PeekMulti("name") {
			wanted[string(v)] = true
		}

		filtered := make([]*dto.MetricFamily, 0, len(metricFamilies))
		for _, mf := range metricFamilies {
			if len(wanted) > 0 && !wanted[mf.GetName()] {
				continue
			}
			if len(mf.GetMetric()) == 0 {
				continue
			}
			filtered = append(filtered, mf)
		}

		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, format)
		for _, mf := range filtered {
			if err := encoder.Encode(mf); err != nil {
				internalError(ctx, "encode metrics", err)
				return
			}
		}

		ctx.SetContentType(string(format))
		ctx.Response.Header.Set("Cache-Control", "no-store")
		ctx.SetBody(buf.Bytes())
	}
}
