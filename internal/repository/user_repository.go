/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package repository

import (
	"chatrelay/internal/entity"

	"gorm.io/gorm"
)

// This repository is used to manipulate the registered users of the system.
type UserRepository interface {
	Create(user *entity.User) error                      // Inserts a user, together with its secret
	GetByUsername(username string) (*entity.User, error) // Retrieves the user with the given display name
	GetForLogin(username string) (*entity.User, error)   // Retrieves the user with its hashed password preloaded, hence, used for login
	GetAll() ([]*entity.User, error)                     // Retrieves all the users, WITHOUT their secret
}

// Implementation of the repository using a SQLite DB
type SQLiteUserRepository struct {
	db *gorm.DB
}

func NewSQLiteUserRepository(db *gorm.DB) UserRepository {
	return &SQLiteUserRepository{db}
}

func (repo *SQLiteUserRepository) Create(user *entity.User) error {
	// User and secret land together or not at all.
	return repo.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
}

func (repo *SQLiteUserRepository) GetByUsername(username string) (*entity.User, error) {
	var user *entity.User
	err := repo.db.Where("username = ?", username).First(&user).Error
	return user, err
}

func (repo *SQLiteUserRepository) GetForLogin(username string) (*entity.User, error) {
	var user *entity.User
	err := repo.db.Preload("Secret").Where("username = ?", username).First(&user).Error
	return user, err
}

func (repo *SQLiteUserRepository) GetAll() ([]*entity.User, error) {
	var users []*entity.User
	err := repo.db.Order("username ASC").Find(&users).Error
	return users, err
}
