/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterHashesThePassword(t *testing.T) {
	req := require.New(t)
	auth := NewAuthService(newMockUserRepo(), mockLogger{})

	user, err := auth.Register("alice", "hunter2")
	req.NoError(err)
	req.NotEmpty(user.UUID)
	req.Equal("alice", user.Username)

	req.NotEqual("hunter2", user.Secret.Hash)
	req.NoError(bcrypt.CompareHashAndPassword([]byte(user.Secret.Hash), []byte("hunter2")))
	req.Equal(user.UUID, user.Secret.UserUUID)
}

func TestRegisterRefusesTakenUsername(t *testing.T) {
	req := require.New(t)
	auth := NewAuthService(newMockUserRepo(), mockLogger{})

	_, err := auth.Register("alice", "hunter2")
	req.NoError(err)

	_, err = auth.Register("alice", "different")
	req.ErrorIs(err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	req := require.New(t)
	auth := NewAuthService(newMockUserRepo(), mockLogger{})

	registered, err := auth.Register("alice", "hunter2")
	req.NoError(err)

	user, err := auth.Login("alice", "hunter2")
	req.NoError(err)
	req.Equal(registered.UUID, user.UUID)

	_, err = auth.Login("alice", "wrong")
	req.ErrorIs(err, ErrWrongCredentials)

	_, err = auth.Login("nobody", "hunter2")
	req.ErrorIs(err, ErrWrongCredentials)
}
