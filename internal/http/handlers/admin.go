package handlers

import (
	"fmt"

	"github.com/valyala/fasthttp"

	"vortexgames/internal/audit"
	dbpkg "vortexgames/internal/db"
	httpctx "vortexgames/internal/http/ctx"
)

// The handlers below sit behind RequireAdmin, so a session user is always
// present.

func actor(ctx *fasthttp.RequestCtx) string {
	if u, ok := httpctx.UserFromCtx(ctx); ok {
		return u.Username
	}
	return ""
}

func AdminStats(store *dbpkg.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		st, err := store.Stats(httpctx.Context(ctx))
		if err != nil {
			internalError(ctx, "stats", err)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, st)
	}
}

func AdminListGames(store *dbpkg.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		games, err := store.ListGamesNewestFirst(httpctx.Context(ctx))
		if err != nil {
			internalError(ctx, "list games", err)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, games)
	}
}

func AdminCreateGame(store *dbpkg.Store, logger *audit.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var f dbpkg.GameFields
		if !decodeBody(ctx, &f) {
			return
		}
		if _, err := store.CreateGame(httpctx.Context(ctx), f); err != nil {
			internalError(ctx, "create game", err)
			return
		}

		who := actor(ctx)
		logger.Log(entry(ctx, audit.ActionGameAdd, who,
			fmt.Sprintf("Admin %s added game: %s", who, f.Title)))
		success(ctx)
	}
}

// AdminUpdateGame overwrites a game. Unlike the other handlers it reports
// the store's own error text.
func AdminUpdateGame(store *dbpkg.Store, logger *audit.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		var f dbpkg.GameFields
		if !decodeBody(ctx, &f) {
			return
		}
		if err := store.UpdateGame(httpctx.Context(ctx), id, f); err != nil {
			jsonResponse(ctx, fasthttp.StatusInternalServerError, map[string]any{"message": err.Error()})
			return
		}

		who := actor(ctx)
		logger.Log(entry(ctx, audit.ActionGameEdit, who,
			fmt.Sprintf("Admin %s updated game ID: %d", who, id)))
		success(ctx)
	}
}

func AdminDeleteGame(store *dbpkg.Store, logger *audit.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if err := store.DeleteGame(httpctx.Context(ctx), id); err != nil {
			internalError(ctx, "delete game", err)
			return
		}

		logger.Log(entry(ctx, audit.ActionGameDelete, actor(ctx),
			fmt.Sprintf("Admin deleted game ID: %d", id)))
		success(ctx)
	}
}

// AdminListUsers lists regular users. Admin accounts are not shown.
func AdminListUsers(store *dbpkg.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		users, err := store.ListUsersByRole(httpctx.Context(ctx), dbpkg.RoleUser)
		if err != nil {
			internalError(ctx, "list users", err)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, users)
	}
}

// AdminBanUser deletes the user row. Their keys and any live session are
// left in place.
func AdminBanUser(store *dbpkg.Store, logger *audit.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		id, ok := pathID(ctx)
		if !ok {
			return
		}
		if err := store.DeleteUser(httpctx.Context(ctx), id); err != nil {
			internalError(ctx, "ban user", err)
			return
		}

		logger.Log(entry(ctx, audit.ActionUserBan, actor(ctx),
			fmt.Sprintf("Admin banned user ID: %d", id)))
		success(ctx)
	}
}

func AdminLogs(store *dbpkg.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		logs, err := store.RecentLogs(httpctx.Context(ctx), dbpkg.RecentLogLimit)
		if err != nil {
			internalError(ctx, "recent logs", err)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, logs)
	}
}
