/*
Package handler provides the HTTP handler for websocket connection upgrading.

The upgrade handshake is gated on the token store: credentials travel as `id`
and `token` header entries, and a request that fails extraction or validation
is answered with a 401 before any handshake bytes are written, leaving nothing
open. Path gating is the router's job; requests outside /ws get its 404.
*/
package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"lobbyd/internal/app/lobby"
	"lobbyd/internal/pkg/errs"
	"lobbyd/internal/pkg/limiter"
	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/resp"
)

// HandleWebSocket authenticates and promotes websocket upgrade requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return rateLimiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := r.Header.Values("Id")
		tokens := r.Header.Values("Token")

		// Multi-valued credential headers are treated like missing ones.
		if len(ids) != 1 || len(tokens) != 1 || ids[0] == "" || tokens[0] == "" {
			logx.Warn("WebSocket upgrade rejected: missing or malformed credential headers")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		id, tok := ids[0], tokens[0]

		userID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			logx.Warn("WebSocket upgrade rejected: non-numeric user id", "id", id)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		valid, err := deps.Auth.ValidateToken(r.Context(), id, tok)
		if err != nil {
			logx.Error(err, "token store unavailable during upgrade", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !valid {
			logx.Warn("WebSocket upgrade rejected: invalid token", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		sock, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade wrote its own error response and closed the transport.
			logx.Error(err, "failed to upgrade connection", "user_id", userID)
			return
		}

		conn := lobby.NewConn(userID, sock)
		deps.Conns.Register(conn)

		logx.Info("WebSocket connection established",
			"user_id", userID,
			"conn_id", conn.ID(),
		)

		go conn.WritePump()

		// Runs on this goroutine; returning unregisters the connection unless
		// a newer one already replaced it.
		conn.ReadPump(func(c *lobby.Conn) {
			deps.Conns.Remove(c)
		})
	})).ServeHTTP
}
