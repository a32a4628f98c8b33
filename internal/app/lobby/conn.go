/*
Package lobby contains the in-memory core of the lobby server: live websocket
connections, the user-to-connection registry, capacity-bounded rooms, and the
heartbeat monitor that evicts dead connections.

This file defines Conn, the wrapper around a single promoted websocket
connection. Each Conn runs one read loop and one write pump, so inbound frames
are handled in arrival order and the socket only ever has one writer.
*/
package lobby

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/randx"
)

const (
	// timeout for writes to the websocket.
	writeWait = 10 * time.Second

	// maximum allowed size (in bytes) of an inbound frame.
	maxMessageSize = 4096

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256

	// CloseCodeSessionReplaced is a custom close code (4000-4999 range) sent
	// to a connection whose slot was taken over by a newer connection for the
	// same user.
	CloseCodeSessionReplaced = 4001
)

// Liveness states owned by the heartbeat monitor.
const (
	livenessAlive int32 = iota
	livenessPendingProbe
)

// Conn is a single live websocket connection belonging to one user.
type Conn struct {
	// userID is the authenticated owner of this connection.
	userID int64

	// id correlates log lines for this connection across goroutines.
	id string

	// sock is the underlying websocket connection.
	sock *websocket.Conn

	// send queues outbound frames for the write pump.
	send chan []byte

	// liveness is the probe state consumed by the heartbeat monitor.
	liveness atomic.Int32

	// done stops the write pump; closed exactly once by Close.
	done chan struct{}

	closeOnce sync.Once

	logger zerolog.Logger
}

// NewConn wraps a promoted websocket connection for the given user.
func NewConn(userID int64, sock *websocket.Conn) *Conn {
	id := randx.ConnID()

	connLogger := logx.Logger().With().
		Int64("user_id", userID).
		Str("conn_id", id).
		Logger()

	return &Conn{
		userID: userID,
		id:     id,
		sock:   sock,
		send:   make(chan []byte, sendQueueSize),
		done:   make(chan struct{}),
		logger: connLogger,
	}
}

// UserID returns the authenticated owner of this connection.
func (c *Conn) UserID() int64 {
	return c.userID
}

// ID returns the connection's log-correlation identifier.
func (c *Conn) ID() string {
	return c.id
}

// Enqueue queues a frame for delivery. Delivery is best effort: a full queue
// drops the frame and reports false instead of blocking the caller.
func (c *Conn) Enqueue(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// markAlive records that the peer answered the latest probe.
func (c *Conn) markAlive() {
	c.liveness.Store(livenessAlive)
}

// beginProbe flags the connection as awaiting a pong and reports whether the
// previous probe was answered.
func (c *Conn) beginProbe() bool {
	return c.liveness.Swap(livenessPendingProbe) == livenessAlive
}

// ping sends a protocol-level liveness probe. WriteControl is safe to call
// concurrently with the write pump.
func (c *Conn) ping() error {
	return c.sock.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Close tears down the connection and stops the write pump. Safe to call from
// any goroutine, any number of times.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.sock.Close()
	})
	return err
}

// CloseWithCode sends a close frame carrying the given code before tearing
// the connection down. Used when a newer connection replaces this one.
func (c *Conn) CloseWithCode(code int, reason string) {
	c.logger.Warn().
		Int("close_code", code).
		Str("reason", reason).
		Msg("Closing connection with close frame.")

	frame := websocket.FormatCloseMessage(code, reason)
	if err := c.sock.WriteControl(websocket.CloseMessage, frame, time.Now().Add(writeWait)); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to write close frame.")
	}

	c.Close()
}

// WritePump drains the send queue onto the socket. It must run in its own
// goroutine and exits when the connection is closed or a write fails.
func (c *Conn) WritePump() {
	defer c.Close()

	for {
		select {
		case frame := <-c.send:
			if err := c.sock.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if err := c.sock.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-c.done:
			return
		}
	}
}

// ReadPump consumes inbound frames until the connection drops, then invokes
// onClose and tears the socket down. Pong frames refresh the liveness state;
// in-room chat payloads are not part of the lobby protocol yet, so anything
// else is logged and discarded.
func (c *Conn) ReadPump(onClose func(*Conn)) {
	defer func() {
		onClose(c)
		c.Close()
		c.logger.Info().Msg("Connection closed.")
	}()

	c.sock.SetReadLimit(maxMessageSize)

	c.sock.SetPongHandler(func(string) error {
		c.markAlive()
		return nil
	})

	for {
		_, frame, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Unexpected connection close")
			}
			return
		}

		c.logger.Debug().Int("bytes", len(frame)).Msg("Inbound message ignored")
	}
}
