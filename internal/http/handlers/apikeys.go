package handlers

import (
	"fmt"

	"github.com/valyala/fasthttp"

	"vortexgames/internal/audit"
	dbpkg "vortexgames/internal/db"
	httpctx "vortexgames/internal/http/ctx"
)

var loginRequired = map[string]any{"message": "Login required"}

// MyKeys lists the session user's keys, newest first. Anonymous callers get
// 401 with an empty array.
func MyKeys(store *dbpkg.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx, []dbpkg.APIKey{})
		if !ok {
			return
		}
		keys, err := store.ListAPIKeys(httpctx.Context(ctx), user.ID)
		if err != nil {
			internalError(ctx, "list api keys", err)
			return
		}
		jsonResponse(ctx, fasthttp.StatusOK, keys)
	}
}

type createKeyRequest struct {
	Label string `json:"label"`
}

func CreateKey(store *dbpkg.Store, logger *audit.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx, loginRequired)
		if !ok {
			return
		}
		var req createKeyRequest
		if !decodeBody(ctx, &req) {
			return
		}

		if _, err := store.CreateAPIKey(httpctx.Context(ctx), user.ID, req.Label); err != nil {
			internalError(ctx, "create api key", err)
			return
		}

		logger.Log(entry(ctx, audit.ActionKeyGenerate, user.Username,
			fmt.Sprintf("User %s created key: %s", user.Username, req.Label)))
		success(ctx)
	}
}

// RevokeKey deletes one of the caller's keys. Ids that do not exist or
// belong to someone else are a silent no-op, and the revoke is recorded
// either way.
func RevokeKey(store *dbpkg.Store, logger *audit.Logger) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx, loginRequired)
		if !ok {
			return
		}
		id, ok := pathID(ctx)
		if !ok {
			return
		}

		if _, err := store.RevokeAPIKey(httpctx.Context(ctx), id, user.ID); err != nil {
			internalError(ctx, "revoke api key", err)
			return
		}

		logger.Log(entry(ctx, audit.ActionKeyRevoke, user.Username,
			fmt.Sprintf("User %s revoked a key", user.Username)))
		success(ctx)
	}
}
