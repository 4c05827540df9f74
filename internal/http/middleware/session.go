package middleware

import (
	"errors"
	"log/slog"

	"github.com/valyala/fasthttp"

	httpctx "vortexgames/internal/http/ctx"
	"vortexgames/internal/session"
)

// Session loads the user snapshot for the session cookie, if any, and puts
// it on the context. Requests without a valid session pass through
// anonymously; handlers decide whether that is allowed.
func Session(store session.Store, cookieName string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := ctx.Request.Header.Cookie(cookieName)
			if len(token) == 0 {
				next(ctx)
				return
			}

			user, err := store.Get(httpctx.Context(ctx), string(token))
			switch {
			case errors.Is(err, session.ErrNotFound):
			case err != nil:
				slog.Error("load session", "error", err)
				writeJSON(ctx, fasthttp.StatusInternalServerError, map[string]any{"success": false, "message": "internal error"})
				return
			default:
				httpctx.SetSession(ctx, user, string(token))
			}
			next(ctx)
		}
	}
}

// RequireAdmin lets the request through only for a session whose role is
// admin. The role is the one captured at login.
func RequireAdmin(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := httpctx.UserFromCtx(ctx)
		if !ok || !user.IsAdmin() {
			writeMessage(ctx, fasthttp.StatusForbidden, "Admin only")
			return
		}
		next(ctx)
	}
}
