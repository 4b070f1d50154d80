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

// This repository is used to manipulate the groups and user-group relations in the system.
// Groups are never deleted or edited after creation, so the surface is Create plus reads.
type GroupRepository interface {
	Create(group *entity.ChatGroup) error             // Inserts a group together with its membership rows
	GetByUUID(uuid string) (*entity.ChatGroup, error) // Retrieves the group with the given uuid, members included
	GetAll() ([]*entity.ChatGroup, error)             // Retrieves all the groups, each WITH the list of members (users)
}

// Implementation of the repository using a SQLite DB
type SQLiteGroupRepository struct {
	db *gorm.DB
}

func NewSQLiteGroupRepository(db *gorm.DB) GroupRepository {
	return &SQLiteGroupRepository{db}
}

func (repo *SQLiteGroupRepository) Create(group *entity.ChatGroup) error {
	return repo.db.Transaction(func(tx *gorm.DB) error {
		// Members are existing users, only the join rows must be written.
		return tx.Omit("Members.*").Create(group).Error
	})
}

func (repo *SQLiteGroupRepository) GetByUUID(uuid string) (*entity.ChatGroup, error) {
	var group *entity.ChatGroup
	err := repo.db.Preload("Members").First(&group, "uuid = ?", uuid).Error
	return group, err
}

func (repo *SQLiteGroupRepository) GetAll() ([]*entity.ChatGroup, error) {
	var groups []*entity.ChatGroup
	err := repo.db.Preload("Members").Order("created_at ASC").Find(&groups).Error
	return groups, err
}
