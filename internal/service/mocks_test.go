/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"errors"

	"chatrelay/internal/entity"
)

type mockLogger struct{}

func (mockLogger) Logf(string, ...any) {}

var errNotFound = errors.New("record not found")

type mockUserRepo struct {
	users map[string]*entity.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*entity.User)}
}

func (m *mockUserRepo) Create(user *entity.User) error {
	if _, ok := m.users[user.Username]; ok {
		return errors.New("unique constraint violated")
	}
	m.users[user.Username] = user
	return nil
}

func (m *mockUserRepo) GetByUsername(username string) (*entity.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, errNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetForLogin(username string) (*entity.User, error) {
	return m.GetByUsername(username)
}

func (m *mockUserRepo) GetAll() ([]*entity.User, error) {
	all := make([]*entity.User, 0, len(m.users))
	for _, user := range m.users {
		all = append(all, user)
	}
	return all, nil
}

type mockGroupRepo struct {
	groups    map[string]*entity.ChatGroup
	createErr error
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{groups: make(map[string]*entity.ChatGroup)}
}

func (m *mockGroupRepo) Create(group *entity.ChatGroup) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.groups[group.UUID] = group
	return nil
}

func (m *mockGroupRepo) GetByUUID(uuid string) (*entity.ChatGroup, error) {
	group, ok := m.groups[uuid]
	if !ok {
		return nil, errNotFound
	}
	return group, nil
}

func (m *mockGroupRepo) GetAll() ([]*entity.ChatGroup, error) {
	all := make([]*entity.ChatGroup, 0, len(m.groups))
	for _, group := range m.groups {
		all = append(all, group)
	}
	return all, nil
}

type mockMessageRepo struct {
	messages  []*entity.Message
	createErr error
	lastLimit int
}

func (m *mockMessageRepo) Create(message *entity.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockMessageRepo) History(room string, isGroup bool, limit int) ([]*entity.Message, error) {
	m.lastLimit = limit
	var matching []*entity.Message
	for _, message := range m.messages {
		if message.Room == room && message.IsGroup == isGroup {
			matching = append(matching, message)
		}
	}
	if len(matching) > limit {
		matching = matching[len(matching)-limit:]
	}
	return matching, nil
}
