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
)

// DefaultHistoryLimit bounds a history replay to a single fetch.
const DefaultHistoryLimit = 50

// Service used to route messages, both for DMs and group chats.
// Every send persists before anything is delivered, so a message can never be
// observed by a recipient without being durably stored.
type MessageService interface {
	SendDirect(sender, recipient, text string) (*entity.Message, error)                  // Persists a direct message, its room key derived from the two names
	SendGroup(sender, groupUUID, text string) (*entity.Message, *entity.ChatGroup, error) // Validates membership and persists a group message, returning the group for delivery
	History(room string, isGroup bool, limit int) ([]*entity.Message, error)             // Retrieves the most recent messages of a conversation, oldest first
}

type messageService struct {
	messages repository.MessageRepository // Repository for messages
	groups   repository.GroupRepository   // Repository for groups, used for membership checks
	logger   rlog.Logger                  // Logs a format string
}

func NewMessageService(messages repository.MessageRepository, groups repository.GroupRepository, logger rlog.Logger) MessageService {
	return &messageService{
		messages: messages,
		groups:   groups,
		logger:   logger,
	}
}

func (m *messageService) Logf(format string, v ...any) {
	m.logger.Logf(format, v...)
}

func (m *messageService) SendDirect(sender, recipient, text string) (*entity.Message, error) {
	message := &entity.Message{
		UUID:      uuid.New().String(),
		Room:      DirectRoomKey(sender, recipient),
		Author:    sender,
		Text:      text,
		IsGroup:   false,
		CreatedAt: time.Now(),
	}
	if err := m.messages.Create(message); err != nil {
		m.Logf("Could not persist DM {%v}", err)
		return nil, err
	}

	m.Logf("DM persisted in room %s", message.Room)
	return message, nil
}

func (m *messageService) SendGroup(sender, groupUUID, text string) (*entity.Message, *entity.ChatGroup, error) {
	group, err := m.groups.GetByUUID(groupUUID)
	if err != nil {
		m.Logf("Refusing group message, no such group {%s}", groupUUID)
		return nil, nil, ErrGroupNotFound
	}
	if !group.HasMember(sender) {
		m.Logf("Refusing group message from non-member {%s into %s}", sender, groupUUID)
		return nil, nil, ErrNotAMember
	}

	message := &entity.Message{
		UUID:      uuid.New().String(),
		Room:      group.UUID,
		Author:    sender,
		Text:      text,
		IsGroup:   true,
		CreatedAt: time.Now(),
	}
	if err := m.messages.Create(message); err != nil {
		m.Logf("Could not persist group message {%v}", err)
		return nil, nil, err
	}

	m.Logf("Group message persisted in room %s", group.UUID)
	return message, group, nil
}

func (m *messageService) History(room string, isGroup bool, limit int) ([]*entity.Message, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	return m.messages.History(room, isGroup, limit)
}
