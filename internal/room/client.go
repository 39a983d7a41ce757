// internal/room/client.go
package room

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a single connected websocket peer: its assigned id, display
// name, and the outgoing message queue drained by its write pump.
type Client struct {
	ID     int64
	Name   string
	Conn   *websocket.Conn
	Cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	outChan chan interface{}
}

func newClient(id int64, name string, conn *websocket.Conn, cancel context.CancelFunc) *Client {
	return &Client{
		ID:      id,
		Name:    name,
		Conn:    conn,
		Cancel:  cancel,
		outChan: make(chan interface{}, 16),
	}
}

// Send queues a message for delivery without blocking. Messages to a full
// or already-closed queue are dropped; the read loop is responsible for
// noticing dead connections.
func (c *Client) Send(msg interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.outChan <- msg:
		return true
	default:
		return false
	}
}

// CloseSend closes the outgoing queue. The write pump drains whatever is
// already queued (e.g. a final gameReset) and then closes the connection.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.outChan)
}

// WritePump serializes queued messages onto the websocket until the context
// is cancelled or the queue is closed. Runs in its own goroutine per client.
func (c *Client) WritePump(ctx context.Context, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.outChan:
			if !ok {
				// Queue closed by a room reset: drained, now disconnect.
				c.Conn.Close(websocket.StatusNormalClosure, "server reset")
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Errorf("client %d: failed to marshal outgoing message: %v", c.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err = c.Conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Debugf("client %d: write failed: %v", c.ID, err)
				return
			}
		}
	}
}
