/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"chatrelay/internal/rlog"
	"chatrelay/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
)

const sessionName = "auth-session"

type authReqFields struct {
	Username string `json:"username" validate:"required,min=1,max=32"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// AuthHandler helps in managing user registration and authentication
type AuthHandler struct {
	authService service.AuthService
	cookieStore *sessions.CookieStore
	validate    *validator.Validate
	logger      rlog.Logger
}

func NewAuthHandler(authService service.AuthService, cookieStore *sessions.CookieStore, logger rlog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieStore: cookieStore,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (authReqFields, bool) {
	var request authReqFields
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Error occurred while parsing the request body", http.StatusBadRequest)
		return request, false
	}
	if err := h.validate.Struct(request); err != nil {
		http.Error(w, "Username and password are both required", http.StatusBadRequest)
		return request, false
	}
	return request, true
}

// Register creates a new account from a {username, password} JSON body.
// It answers 201 on success and 400 when the name is already taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Register(request.Username, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"uuid":     user.UUID,
		"username": user.Username,
	})
}

// Login authenticates a {username, password} JSON body, answering 200 with the
// identity and a session cookie, or 400 on any credential mismatch.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	request, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Login(request.Username, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongCredentials) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	session, _ := h.cookieStore.Get(r, sessionName)
	session.Values["user_uuid"] = user.UUID
	session.Values["username"] = user.Username
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, "Saving cookie", http.StatusInternalServerError)
		return
	}

	h.logger.Logf("%s logged in", user.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"uuid":     user.UUID,
		"username": user.Username,
	})
}

// Logout deletes the current user's session, effectively logging him out
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.cookieStore.Get(r, sessionName)
	session.Options.MaxAge = -1
	if err := sessions.Save(r, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
