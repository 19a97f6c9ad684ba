package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var ErrChannelClosed = errors.New("channel closed")

// Channel is one live endpoint the relay can push messages to.
type Channel interface {
	ID() string
	Send(msg Message) error
	Close() error
}

// clientConn is the websocket backed Channel.
type clientConn struct {
	id        string
	rawConn   *websocket.Conn
	writeWait time.Duration

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

var _ Channel = (*clientConn)(nil)

func newClientConn(rawConn *websocket.Conn, writeWait time.Duration) *clientConn {
	return &clientConn{
		id:        uuid.NewString(),
		rawConn:   rawConn,
		writeWait: writeWait,
		done:      make(chan struct{}),
	}
}

func (c *clientConn) ID() string { return c.id }

func (c *clientConn) Send(msg Message) error {
	return c.write(websocket.TextMessage, []byte(msg))
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.rawConn.WriteMessage(mt, data) // Text/Binary only
}

func (c *clientConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrChannelClosed
	}
	return c.rawConn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
}

// Close is idempotent. A send after Close returns ErrChannelClosed.
func (c *clientConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return c.rawConn.Close()
}
