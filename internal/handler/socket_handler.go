/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"net/http"

	"chatrelay/internal/relay"
	"chatrelay/internal/rlog"

	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
)

// SocketHandler upgrades authenticated requests onto the relay's event channel.
type SocketHandler struct {
	hub         *relay.Hub
	cookieStore *sessions.CookieStore
	upgrader    websocket.Upgrader
	logger      rlog.Logger
}

func NewSocketHandler(hub *relay.Hub, cookieStore *sessions.CookieStore, allowedOrigins []string, logger rlog.Logger) *SocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &SocketHandler{
		hub:         hub,
		cookieStore: cookieStore,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// An empty allowlist keeps the door open for local development.
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
		logger: logger,
	}
}

// Serve gates the upgrade behind a valid login session. The display name the
// client later joins with comes over the socket itself, the session only
// proves the caller is a registered user.
func (h *SocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	session, err := h.cookieStore.Get(r, sessionName)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if _, ok := session.Values["username"].(string); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Logf("Could not upgrade connection from %s {%v}", r.RemoteAddr, err)
		return
	}

	h.hub.Register(relay.NewClient(conn, h.hub, r.RemoteAddr))
}
