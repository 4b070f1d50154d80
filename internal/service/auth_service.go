/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"time"

	"chatrelay/internal/entity"
	"chatrelay/internal/repository"
	"chatrelay/internal/rlog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service used for the user registration and login phases
type AuthService interface {
	Register(username, password string) (*entity.User, error) // Tries to create a new user in the system, returning it if successful
	Login(username, password string) (*entity.User, error)    // Tries to authenticate a user via its credentials, returning the user entity if successful
}

type authService struct {
	users  repository.UserRepository // Repository for users
	logger rlog.Logger               // Logs a format string
}

func NewAuthService(users repository.UserRepository, logger rlog.Logger) AuthService {
	return &authService{
		users:  users,
		logger: logger,
	}
}

func (a *authService) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

func (a *authService) Register(username, password string) (*entity.User, error) {
	if _, err := a.users.GetByUsername(username); err == nil {
		a.Logf("Registration refused, username taken {%s}", username)
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		a.Logf("Could not calculate hash {%v}", err)
		return nil, err
	}

	id := uuid.New().String()
	u := &entity.User{
		UUID:      id,
		Username:  username,
		CreatedAt: time.Now(),

		Secret: entity.UserSecret{
			UserUUID: id,
			Hash:     string(hash),
		},
	}
	if err := a.users.Create(u); err != nil {
		return nil, err
	}

	a.Logf("User correctly registered {%s}", username)
	return u, nil
}

func (a *authService) Login(username, password string) (*entity.User, error) {
	u, err := a.users.GetForLogin(username)
	if err != nil {
		a.Logf("Login refused, user not found {%s}", username)
		return nil, ErrWrongCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Secret.Hash), []byte(password)); err != nil {
		a.Logf("Login refused, hash mismatch {%s}", username)
		return nil, ErrWrongCredentials
	}

	a.Logf("User correctly logged in {%s}", username)
	return u, nil
}
