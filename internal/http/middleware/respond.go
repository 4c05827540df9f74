package middleware

import (
	"encoding/json"

	"github.com/valyala/fasthttp"
)

func writeJSON(ctx *fasthttp.RequestCtx, code int, v any) {
	body, _ := json.Marshal(v)
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeMessage(ctx *fasthttp.RequestCtx, code int, msg string) {
	writeJSON(ctx, code, map[string]any{"message": msg})
}
