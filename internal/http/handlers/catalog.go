package handlers

import (
	"github.com/valyala/fasthttp"

	dbpkg "vortexgames/internal/db"
	httpctx "vortexgames/internal/http/ctx"
)

const platformName = "VortexGames API"

type listMeta struct {
	Platform string `json:"platform"`
	Total    int    `json:"total"`
}

type searchMeta struct {
	Query string `json:"query"`
}

type catalogResponse struct {
	Meta any          `json:"meta"`
	Data []dbpkg.Game `json:"data"`
}

// ListGames serves the full catalog to API key holders.
func ListGames(store *dbpkg.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		games, err := store.ListGames(httpctx.Context(ctx))
		if err != nil {
			internalError(ctx, "list games", err)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, catalogResponse{
			Meta: listMeta{Platform: platformName, Total: len(games)},
			Data: games,
		})
	}
}

// SearchGames matches q as a substring of the title. LIKE wildcards in q
// are not escaped.
func SearchGames(store *dbpkg.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		q := string(ctx.QueryArgs().Peek("q"))
		games, err := store.SearchGames(httpctx.Context(ctx), q)
		if err != nil {
			internalError(ctx, "search games", err)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, catalogResponse{
			Meta: searchMeta{Query: q},
			Data: games,
		})
	}
}
