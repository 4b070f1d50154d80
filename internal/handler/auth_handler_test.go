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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chatrelay/internal/entity"
	"chatrelay/internal/service"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
)

type mockLogger struct{}

func (mockLogger) Logf(string, ...any) {}

type mockAuthService struct {
	registerErr error
	loginErr    error
}

func (m *mockAuthService) Register(username, _ string) (*entity.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &entity.User{UUID: "uuid-" + username, Username: username}, nil
}

func (m *mockAuthService) Login(username, _ string) (*entity.User, error) {
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &entity.User{UUID: "uuid-" + username, Username: username}, nil
}

func newTestAuthHandler(svc service.AuthService) *AuthHandler {
	return NewAuthHandler(svc, sessions.NewCookieStore([]byte("test-session-key")), mockLogger{})
}

func postJSON(handlerFunc http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handlerFunc(rr, req)
	return rr
}

func TestRegisterCreated(t *testing.T) {
	req := require.New(t)
	h := newTestAuthHandler(&mockAuthService{})

	rr := postJSON(h.Register, "/register", `{"username":"alice","password":"hunter2"}`)
	req.Equal(http.StatusCreated, rr.Code)

	var body map[string]string
	req.NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	req.Equal("alice", body["username"])
	req.Equal("uuid-alice", body["uuid"])
}

func TestRegisterDuplicateIsBadRequest(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{registerErr: service.ErrUsernameTaken})

	rr := postJSON(h.Register, "/register", `{"username":"alice","password":"hunter2"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterRejectsBadPayloads(t *testing.T) {
	req := require.New(t)
	h := newTestAuthHandler(&mockAuthService{})

	rr := postJSON(h.Register, "/register", `{not json`)
	req.Equal(http.StatusBadRequest, rr.Code)

	rr = postJSON(h.Register, "/register", `{"username":"alice"}`)
	req.Equal(http.StatusBadRequest, rr.Code)

	rr = postJSON(h.Register, "/register", `{"username":"","password":"hunter2"}`)
	req.Equal(http.StatusBadRequest, rr.Code)
}

func TestLoginSetsTheSessionCookie(t *testing.T) {
	req := require.New(t)
	h := newTestAuthHandler(&mockAuthService{})

	rr := postJSON(h.Login, "/login", `{"username":"alice","password":"hunter2"}`)
	req.Equal(http.StatusOK, rr.Code)
	req.NotEmpty(rr.Result().Cookies(), "a successful login must set the session cookie")

	var body map[string]string
	req.NoError(json.Unmarshal(rr.Body.Bytes(), &body))
	req.Equal("alice", body["username"])
}

func TestLoginMismatchIsBadRequest(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{loginErr: service.ErrWrongCredentials})

	rr := postJSON(h.Login, "/login", `{"username":"alice","password":"wrong"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogout(t *testing.T) {
	h := newTestAuthHandler(&mockAuthService{})

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rr := httptest.NewRecorder()
	h.Logout(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestSocketUpgradeRequiresASession(t *testing.T) {
	h := NewSocketHandler(nil, sessions.NewCookieStore([]byte("test-session-key")), nil, mockLogger{})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rr := httptest.NewRecorder()
	h.Serve(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
