/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// Represents a message sent between two users or in a group chat.
// Messages are immutable once stored; the JSON field names are the ones the
// browser client expects on the "message" and "messageHistory" events.
type Message struct {
	UUID      string    `gorm:"primaryKey" json:"-"`              // Unique identifier
	Room      string    `gorm:"not null;index" json:"room"`       // Conversation key: "<a>-<b>" with the names sorted for DMs, the group UUID otherwise
	Author    string    `gorm:"not null" json:"user"`             // Display name of the sender ("System" for lifecycle notices)
	Text      string    `gorm:"not null" json:"text"`             // Actual content of the message
	IsGroup   bool      `gorm:"default:false" json:"isGroup"`     // Flag used to check if the message was sent in a group or in DM
	CreatedAt time.Time `gorm:"not null;index" json:"timestamp"`  // Time of creation, relative to the single writer of the store
}
