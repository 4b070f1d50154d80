/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package relay

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"chatrelay/internal/entity"
	"chatrelay/internal/rlog"
	"chatrelay/internal/service"
)

type inboundEvent struct {
	client   *Client
	envelope Envelope
}

// Hub owns the connection and group registries and routes every event of the
// relay. All registry mutations happen inside the Run loop, so a single writer
// touches the shared state; the mutex only guards the client set for the
// senders running outside the loop.
type Hub struct {
	groups       service.GroupService
	messages     service.MessageService
	logger       rlog.Logger
	historyLimit int

	clients map[*Client]bool   // Every live connection, joined or not
	byName  map[string]*Client // Online participants, display name to connection

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent

	mutex  sync.RWMutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(groups service.GroupService, messages service.MessageService, logger rlog.Logger, historyLimit int) *Hub {
	if historyLimit <= 0 {
		historyLimit = service.DefaultHistoryLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		groups:       groups,
		messages:     messages,
		logger:       logger,
		historyLimit: historyLimit,
		clients:      make(map[*Client]bool),
		byName:       make(map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inboundEvent),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
}

// Register hands a freshly upgraded connection to the hub loop.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run is the hub's event loop. It must be started in its own goroutine and
// runs until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeClients()
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.dropClient(client)
		case ev := <-h.inbound:
			h.dispatch(ev.client, ev.envelope)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	if client == nil {
		return
	}

	h.mutex.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.Logf("Connection from %s registered, %d total", client.addr, total)

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()

	// A new connection immediately learns who is online and which groups exist.
	h.sendUsers(client)
	h.sendGroups(client)
}

// dropClient removes a connection from both registries. It's idempotent, since
// a kicked client reports its own disconnect a second time later on.
func (h *Hub) dropClient(client *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, client)
	client.closed = true
	h.mutex.Unlock()
	close(client.send)

	if client.username != "" && h.byName[client.username] == client {
		delete(h.byName, client.username)
		h.logger.Logf("%s disconnected", client.username)
		h.broadcastUsers()
	}
}

func (h *Hub) dispatch(client *Client, env Envelope) {
	h.mutex.RLock()
	gone := !h.clients[client]
	h.mutex.RUnlock()
	if gone {
		return
	}

	if env.Event != EventJoin && client.username == "" {
		h.sendError(client, "not-joined", "join with a display name first")
		return
	}

	switch env.Event {
	case EventJoin:
		var name string
		if err := json.Unmarshal(env.Payload, &name); err != nil || name == "" {
			h.sendError(client, "bad-join", "join payload must be a non-empty name")
			return
		}
		h.handleJoin(client, name)

	case EventCreateGroup:
		var p createGroupPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.GroupName == "" {
			h.sendError(client, "bad-payload", "createGroup needs a group name")
			return
		}
		h.handleCreateGroup(client, p)

	case EventSendMessage:
		var p sendMessagePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.Recipient == "" {
			h.sendError(client, "bad-payload", "sendMessage needs a recipient")
			return
		}
		h.handleSendMessage(client, p)

	case EventHistory:
		var p historyPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || p.Room == "" {
			h.sendError(client, "bad-payload", "getMessageHistory needs a room")
			return
		}
		h.handleHistory(client, p)

	default:
		h.sendError(client, "unknown-event", "unknown event "+env.Event)
	}
}

// handleJoin binds the connection to a display name. A name already online is
// rebound to the newcomer and the stale session is kicked (last writer wins).
func (h *Hub) handleJoin(client *Client, name string) {
	if prev, ok := h.byName[name]; ok && prev != client {
		h.logger.Logf("Name %s rebound, kicking the previous connection", name)
		h.dropClient(prev)
	}
	if client.username != "" && client.username != name && h.byName[client.username] == client {
		delete(h.byName, client.username)
	}

	client.username = name
	h.byName[name] = client
	h.logger.Logf("%s joined from %s", name, client.addr)

	h.broadcastUsers()
	h.sendGroups(client)
}

func (h *Hub) handleCreateGroup(client *Client, p createGroupPayload) {
	group, notice, err := h.groups.CreateGroup(p.GroupName, client.username, p.Members)
	if err != nil {
		h.sendError(client, "create-failed", err.Error())
		return
	}

	h.broadcastGroups()
	for _, member := range group.MemberNames() {
		if mc, ok := h.byName[member]; ok {
			h.sendTo(mc, EventMessage, notice)
		}
	}
}

func (h *Hub) handleSendMessage(client *Client, p sendMessagePayload) {
	if p.IsGroup {
		message, group, err := h.messages.SendGroup(client.username, p.Recipient, p.Message)
		if err != nil {
			h.sendError(client, "send-refused", err.Error())
			return
		}
		// Room broadcast: every member currently online, sender included.
		for _, member := range group.MemberNames() {
			if mc, ok := h.byName[member]; ok {
				h.sendTo(mc, EventMessage, message)
			}
		}
		return
	}

	message, err := h.messages.SendDirect(client.username, p.Recipient, p.Message)
	if err != nil {
		h.sendError(client, "send-refused", err.Error())
		return
	}

	// The sender's own view updates first, then the recipient's if online.
	h.sendTo(client, EventMessage, message)
	if rc, ok := h.byName[p.Recipient]; ok && rc != client {
		h.sendTo(rc, EventMessage, message)
	}
}

func (h *Hub) handleHistory(client *Client, p historyPayload) {
	messages, err := h.messages.History(p.Room, p.IsGroup, h.historyLimit)
	if err != nil {
		h.sendError(client, "history-failed", err.Error())
		return
	}
	if messages == nil {
		messages = []*entity.Message{}
	}
	h.sendTo(client, EventMessageHistory, messages)
}

func (h *Hub) onlineUsers() []OnlineUser {
	names := make([]string, 0, len(h.byName))
	for name := range h.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	users := make([]OnlineUser, 0, len(names))
	for _, name := range names {
		users = append(users, OnlineUser{ID: h.byName[name].id, Username: name})
	}
	return users
}

func (h *Hub) groupViews() []GroupView {
	groups, err := h.groups.Groups()
	if err != nil {
		h.logger.Logf("Could not load the group list {%v}", err)
		return []GroupView{}
	}

	views := make([]GroupView, 0, len(groups))
	for _, group := range groups {
		views = append(views, GroupView{ID: group.UUID, Name: group.Name, Members: group.MemberNames()})
	}
	return views
}

func (h *Hub) sendUsers(client *Client)  { h.sendTo(client, EventUsers, h.onlineUsers()) }
func (h *Hub) sendGroups(client *Client) { h.sendTo(client, EventGroups, h.groupViews()) }

func (h *Hub) broadcastUsers()  { h.broadcast(EventUsers, h.onlineUsers()) }
func (h *Hub) broadcastGroups() { h.broadcast(EventGroups, h.groupViews()) }

func (h *Hub) sendError(client *Client, code, reason string) {
	h.sendTo(client, EventError, ErrorPayload{Code: code, Reason: reason})
}

func (h *Hub) sendTo(client *Client, event string, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		h.logger.Logf("Could not encode %s event {%v}", event, err)
		return
	}
	if !h.safeSend(client, data) {
		h.logger.Logf("Dropped %s event for %s, connection not writable", event, client.addr)
	}
}

func (h *Hub) broadcast(event string, payload any) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		h.logger.Logf("Could not encode %s event {%v}", event, err)
		return
	}

	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.RUnlock()

	for _, client := range clients {
		h.safeSend(client, data)
	}
}

// safeSend queues data on the client's channel without ever blocking the hub
// loop. A full buffer or a closed client loses the event, the same way a slow
// socket would.
func (h *Hub) safeSend(client *Client, data []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.clients[client] || client.closed {
		return false
	}

	select {
	case client.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) closeClients() {
	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		if client.conn != nil {
			client.conn.Close()
		}
	}
	h.logger.Logf("Closed %d connections", len(clients))
}

// Shutdown stops the loop, closes every connection and waits for the client
// goroutines to finish, up to the given timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()
	<-h.done

	finished := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}
