package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/chatkit/core/presence"
)

// conn is one authenticated channel connection. The send queue is bounded
// and never closed by broadcasters; done signals the pumps to stop and
// closing is idempotent.
type conn struct {
	id     string
	userID string
	socket *websocket.Conn
	send   chan presence.Event

	done      chan struct{}
	closeOnce sync.Once
}

func newConn(id, userID string, socket *websocket.Conn, queueSize int) *conn {
	if queueSize <= 0 {
		queueSize = 16
	}
	return &conn{
		id:     id,
		userID: userID,
		socket: socket,
		send:   make(chan presence.Event, queueSize),
		done:   make(chan struct{}),
	}
}

// enqueue offers an event to the connection without blocking. Events are
// dropped for a consumer whose queue is full; the next snapshot supersedes
// anything missed.
func (c *conn) enqueue(event presence.Event) {
	select {
	case c.send <- event:
	case <-c.done:
	default:
	}
}

// close stops the pumps and closes the socket. Safe to call multiple times.
func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.socket.Close()
	})
}

// writePump drains the send queue onto the socket until the connection is
// done or a write fails.
func (c *conn) writePump(writeTimeout time.Duration) {
	for {
		select {
		case <-c.done:
			return
		case event := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.socket.WriteJSON(event); err != nil {
				c.close()
				return
			}
		}
	}
}
