/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package relay

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = 54 * time.Second
	maxEventSize = 4096
	sendBuffer   = 256
)

// Client is one live websocket connection of the relay.
// Its identity starts out anonymous; a join event binds it to a display name.
type Client struct {
	id   string // Transport-assigned connection identifier, ephemeral
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
	addr string

	username string // Display name after a join. Only the hub loop touches it.
	closed   bool   // Guarded by the hub's mutex
}

// NewClient wraps an upgraded websocket connection. The client does nothing
// until the hub registers it and starts its pumps.
func NewClient(conn *websocket.Conn, hub *Hub, addr string) *Client {
	if conn != nil {
		conn.SetReadLimit(maxEventSize)
	}
	return &Client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  hub,
		addr: addr,
	}
}

// readPump decodes inbound envelopes and hands them to the hub loop.
// It owns the connection's read side and reports the disconnect when it exits.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Logf("Unexpected close from %s {%v}", c.addr, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.hub.logger.Logf("Invalid envelope from %s {%v}", c.addr, err)
			continue
		}

		select {
		case c.hub.inbound <- inboundEvent{client: c, envelope: env}:
		case <-c.hub.ctx.Done():
			return
		}
	}
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with pings. A closed send channel makes it emit a close frame and stop.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
