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

	"github.com/gorilla/mux"
)

// NewRouter lays out the whole HTTP surface of the relay: the auth
// collaborator, the websocket endpoint and a bare liveness line.
func NewRouter(auth *AuthHandler, socket *SocketHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/register", auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", auth.Logout).Methods(http.MethodPost)

	r.HandleFunc("/ws", socket.Serve).Methods(http.MethodGet)

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Chat server is running"))
	}).Methods(http.MethodGet)

	return r
}
