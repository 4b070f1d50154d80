/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package relay

import "encoding/json"

// Event names of the bidirectional channel. The inbound ones are what the
// browser client emits, the outbound ones are what it listens for.
const (
	EventJoin        = "join"
	EventCreateGroup = "createGroup"
	EventSendMessage = "sendMessage"
	EventHistory     = "getMessageHistory"

	EventUsers          = "users"
	EventGroups         = "groups"
	EventMessage        = "message"
	EventMessageHistory = "messageHistory"
	EventError          = "error"
)

// Envelope frames every event on the socket, in both directions.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type createGroupPayload struct {
	GroupName string   `json:"groupName"`
	Members   []string `json:"members"`
}

type sendMessagePayload struct {
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
	IsGroup   bool   `json:"isGroup"`
}

type historyPayload struct {
	Room    string `json:"room"`
	IsGroup bool   `json:"isGroup"`
}

// OnlineUser is one entry of the "users" broadcast.
type OnlineUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// GroupView is one entry of the "groups" broadcast.
type GroupView struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// ErrorPayload reports a refused operation back to the sender.
type ErrorPayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func encodeEvent(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Payload: raw})
}
