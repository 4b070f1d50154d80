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
	"testing"
	"time"

	"chatrelay/internal/entity"

	"github.com/stretchr/testify/require"
)

func teamGroup() *entity.ChatGroup {
	return &entity.ChatGroup{
		UUID: "group-1",
		Name: "team",
		Members: []*entity.User{
			{UUID: "uuid-alice", Username: "alice"},
			{UUID: "uuid-bob", Username: "bob"},
		},
		CreatedAt: time.Now(),
	}
}

func TestSendDirectPersistsWithSymmetricRoom(t *testing.T) {
	req := require.New(t)
	messages := &mockMessageRepo{}
	svc := NewMessageService(messages, newMockGroupRepo(), mockLogger{})

	fromAlice, err := svc.SendDirect("alice", "bob", "hi")
	req.NoError(err)
	fromBob, err := svc.SendDirect("bob", "alice", "hello")
	req.NoError(err)

	req.Equal("alice-bob", fromAlice.Room)
	req.Equal(fromAlice.Room, fromBob.Room)
	req.Equal("alice", fromAlice.Author)
	req.Equal("hi", fromAlice.Text)
	req.False(fromAlice.IsGroup)
	req.Len(messages.messages, 2)
}

func TestSendDirectFailedWriteIsReported(t *testing.T) {
	messages := &mockMessageRepo{createErr: errors.New("disk full")}
	svc := NewMessageService(messages, newMockGroupRepo(), mockLogger{})

	_, err := svc.SendDirect("alice", "bob", "hi")
	require.Error(t, err)
	require.Empty(t, messages.messages)
}

func TestSendGroupRefusesUnknownGroup(t *testing.T) {
	messages := &mockMessageRepo{}
	svc := NewMessageService(messages, newMockGroupRepo(), mockLogger{})

	_, _, err := svc.SendGroup("alice", "no-such-group", "hi")
	require.ErrorIs(t, err, ErrGroupNotFound)
	require.Empty(t, messages.messages)
}

func TestSendGroupRefusesNonMember(t *testing.T) {
	req := require.New(t)
	groups := newMockGroupRepo()
	req.NoError(groups.Create(teamGroup()))
	messages := &mockMessageRepo{}
	svc := NewMessageService(messages, groups, mockLogger{})

	_, _, err := svc.SendGroup("mallory", "group-1", "let me in")
	req.ErrorIs(err, ErrNotAMember)

	// A refused send must never reach the store, so it cannot show up in
	// a later history replay.
	req.Empty(messages.messages)
}

func TestSendGroupPersistsForMember(t *testing.T) {
	req := require.New(t)
	groups := newMockGroupRepo()
	req.NoError(groups.Create(teamGroup()))
	messages := &mockMessageRepo{}
	svc := NewMessageService(messages, groups, mockLogger{})

	message, group, err := svc.SendGroup("alice", "group-1", "standup in 5")
	req.NoError(err)
	req.Equal("group-1", message.Room)
	req.True(message.IsGroup)
	req.Equal("group-1", group.UUID)
	req.Len(messages.messages, 1)
}

func TestHistoryClampsTheLimit(t *testing.T) {
	req := require.New(t)
	messages := &mockMessageRepo{}
	svc := NewMessageService(messages, newMockGroupRepo(), mockLogger{})

	_, err := svc.History("alice-bob", false, 0)
	req.NoError(err)
	req.Equal(DefaultHistoryLimit, messages.lastLimit)

	_, err = svc.History("alice-bob", false, 500)
	req.NoError(err)
	req.Equal(DefaultHistoryLimit, messages.lastLimit)

	_, err = svc.History("alice-bob", false, 10)
	req.NoError(err)
	req.Equal(10, messages.lastLimit)
}
