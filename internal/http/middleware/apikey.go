package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/valyala/fasthttp"

	dbpkg "vortexgames/internal/db"
	httpctx "vortexgames/internal/http/ctx"
)

const APIKeyHeader = "x-api-key"

// KeyFinder resolves an API key token. *db.Store satisfies it.
type KeyFinder interface {
	FindAPIKey(ctx context.Context, token string) (*dbpkg.APIKey, error)
}

// RequireAPIKey validates the x-api-key header against stored keys.
func RequireAPIKey(keys KeyFinder) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := ctx.Request.Header.Peek(APIKeyHeader)
			if len(token) == 0 {
				writeMessage(ctx, fasthttp.StatusUnauthorized, "API key required")
				return
			}

			key, err := keys.FindAPIKey(httpctx.Context(ctx), string(token))
			if errors.Is(err, dbpkg.ErrNotFound) {
				writeMessage(ctx, fasthttp.StatusForbidden, "Invalid API key")
				return
			}
			if err != nil {
				slog.Error("look up api key", "error", err)
				writeMessage(ctx, fasthttp.StatusInternalServerError, "internal error")
				return
			}

			httpctx.SetAPIKey(ctx, key)
			next(ctx)
		}
	}
}
