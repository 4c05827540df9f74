package handlers

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/valyala/fasthttp"

	"vortexgames/internal/audit"
	dbpkg "vortexgames/internal/db"
	httpctx "vortexgames/internal/http/ctx"
)

func jsonResponse(ctx *fasthttp.RequestCtx, code int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("encode response", "error", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	jsonResponse(ctx, code, map[string]any{"success": false, "message": msg})
}

// internalError logs err and answers with a generic 500.
func internalError(ctx *fasthttp.RequestCtx, op string, err error) {
	slog.Error(op, "error", err, "path", string(ctx.Path()))
	errResponse(ctx, fasthttp.StatusInternalServerError, "internal error")
}

func success(ctx *fasthttp.RequestCtx) {
	jsonResponse(ctx, fasthttp.StatusOK, map[string]any{"success": true})
}

// MustUser returns the session user, or sends 401 with body and returns
// (nil, false).
func MustUser(ctx *fasthttp.RequestCtx, body any) (*dbpkg.User, bool) {
	user, ok := httpctx.UserFromCtx(ctx)
	if !ok {
		jsonResponse(ctx, fasthttp.StatusUnauthorized, body)
		return nil, false
	}
	return user, true
}

// decodeBody unmarshals the JSON request body into dst, answering 400 on
// malformed input.
func decodeBody(ctx *fasthttp.RequestCtx, dst any) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		errResponse(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} route parameter, answering 400 when it is not a
// positive integer.
func pathID(ctx *fasthttp.RequestCtx) (uint, bool) {
	idStr, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		errResponse(ctx, fasthttp.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func entry(ctx *fasthttp.RequestCtx, action, actor, details string) audit.Entry {
	return audit.Entry{
		Action:   action,
		Details:  details,
		Actor:    actor,
		RemoteIP: httpctx.RemoteIP(ctx),
	}
}
