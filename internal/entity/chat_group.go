/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import (
	"sort"
	"time"
)

// Group entity for the chat system. Membership is fixed at creation.
type ChatGroup struct {
	UUID      string    `gorm:"primaryKey" json:"id"`             // Unique identifier, doubles as the room key of the group's conversation
	Name      string    `gorm:"not null;index" json:"name"`       // Name of the group chat
	CreatedAt time.Time `gorm:"not null;index" json:"created-at"` // Time of creation

	Members []*User `gorm:"many2many:group_members;" json:"-"` // List of users inside the group
}

// MemberNames lists the display names of the group's members, sorted so that
// the wire representation is stable no matter how the rows were loaded.
func (g *ChatGroup) MemberNames() []string {
	names := make([]string, 0, len(g.Members))
	for _, member := range g.Members {
		names = append(names, member.Username)
	}
	sort.Strings(names)
	return names
}

// HasMember reports whether the user with the given display name is part of the group.
func (g *ChatGroup) HasMember(username string) bool {
	for _, member := range g.Members {
		if member.Username == username {
			return true
		}
	}
	return false
}
