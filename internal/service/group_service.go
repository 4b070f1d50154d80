/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package service

import (
	"fmt"
	"time"

	"chatrelay/internal/entity"
	"chatrelay/internal/repository"
	"chatrelay/internal/rlog"

	"github.com/google/uuid"
)

// SystemAuthor is the sentinel identity that narrates lifecycle events
// (group created and the like) inside a conversation.
const SystemAuthor = "System"

// Service used to handle groups and the system notices surrounding their creation
type GroupService interface {
	CreateGroup(name, creator string, members []string) (*entity.ChatGroup, *entity.Message, error) // Creates a group with the creator as first member, returning it together with the persisted system notice
	GroupByID(uuid string) (*entity.ChatGroup, error)                                               // Returns the group with the given uuid, ErrGroupNotFound if there is none
	Groups() ([]*entity.ChatGroup, error)                                                           // Returns all the groups
}

type groupService struct {
	groups   repository.GroupRepository   // Repository for groups
	users    repository.UserRepository    // Repository for users, used to resolve member names
	messages repository.MessageRepository // Repository for messages, used to persist the creation notice
	logger   rlog.Logger                  // Logs a format string
}

func NewGroupService(groups repository.GroupRepository, users repository.UserRepository, messages repository.MessageRepository, logger rlog.Logger) GroupService {
	return &groupService{
		groups:   groups,
		users:    users,
		messages: messages,
		logger:   logger,
	}
}

func (g *groupService) Logf(format string, v ...any) {
	g.logger.Logf(format, v...)
}

func (g *groupService) CreateGroup(name, creator string, members []string) (*entity.ChatGroup, *entity.Message, error) {
	seen := make(map[string]bool)
	resolved := make([]*entity.User, 0, len(members)+1)
	for _, username := range append([]string{creator}, members...) {
		if seen[username] {
			continue
		}
		seen[username] = true

		u, err := g.users.GetByUsername(username)
		if err != nil {
			// Names that never registered cannot log in, so carrying them as
			// members would only produce unreachable membership rows.
			g.Logf("Skipping unknown member {%s}", username)
			continue
		}
		resolved = append(resolved, u)
	}

	group := &entity.ChatGroup{
		UUID:      uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
		Members:   resolved,
	}
	if err := g.groups.Create(group); err != nil {
		return nil, nil, err
	}

	notice := &entity.Message{
		UUID:      uuid.New().String(),
		Room:      group.UUID,
		Author:    SystemAuthor,
		Text:      fmt.Sprintf("%s created the group %q", creator, name),
		IsGroup:   true,
		CreatedAt: time.Now(),
	}
	if err := g.messages.Create(notice); err != nil {
		return nil, nil, err
	}

	g.Logf("Group %q created by %s with %d members", name, creator, len(resolved))
	return group, notice, nil
}

func (g *groupService) GroupByID(uuid string) (*entity.ChatGroup, error) {
	group, err := g.groups.GetByUUID(uuid)
	if err != nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

func (g *groupService) Groups() ([]*entity.ChatGroup, error) {
	return g.groups.GetAll()
}
