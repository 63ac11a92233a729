package websocket

import (
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Largest inbound frame accepted
	maxMessageSize = 4096
)

// Conn is one client connection. Its id is the player identity in every
// room it joins.
type Conn struct {
	id      string
	socket  *gorilla.Conn
	limiter *rate.Limiter

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newConn(id string, socket *gorilla.Conn, buffer int, limiter *rate.Limiter) *Conn {
	return &Conn{
		id:      id,
		socket:  socket,
		limiter: limiter,
		send:    make(chan []byte, buffer),
	}
}

// ID returns the connection identity
func (c *Conn) ID() string {
	return c.id
}

// enqueue reports false when the queue is full
func (c *Conn) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Conn) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// writePump drains the send queue to the socket and keeps the peer alive
// with pings. It owns all writes and closes the socket on exit.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.socket.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""))
				return
			}
			if err := c.socket.WriteMessage(gorilla.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(gorilla.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
