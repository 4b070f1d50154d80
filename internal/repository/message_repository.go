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

// This repository is used to manipulate the messages in the system.
// Messages are append-only, so the surface is Create plus a bounded history read.
type MessageRepository interface {
	Create(message *entity.Message) error                                    // Inserts a message in the store
	History(room string, isGroup bool, limit int) ([]*entity.Message, error) // Retrieves the most recent limit messages of the room, oldest first
}

// Implementation of the repository using a SQLite DB
type SQLiteMessageRepository struct {
	db *gorm.DB
}

func NewSQLiteMessageRepository(db *gorm.DB) MessageRepository {
	return &SQLiteMessageRepository{db}
}

func (repo *SQLiteMessageRepository) Create(message *entity.Message) error {
	return repo.db.Create(message).Error
}

func (repo *SQLiteMessageRepository) History(room string, isGroup bool, limit int) ([]*entity.Message, error) {
	var messages []*entity.Message
	err := repo.db.
		Where("room = ? AND is_group = ?", room, isGroup).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// The query walks newest-first so the LIMIT bounds the window, but callers
	// replay conversations oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
