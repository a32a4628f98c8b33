/*
Package lobby contains the in-memory core of the lobby server.

This file defines ConnRegistry, the process-wide mapping from user ID to that
user's single live connection. Rooms never hold connection handles; they keep
user IDs and resolve them here at broadcast time.
*/
package lobby

import (
	"sync"

	"github.com/rs/zerolog"

	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/metrics"
)

// ConnRegistry maps each user to their one live connection.
type ConnRegistry struct {
	// mu protects the conns map.
	mu sync.RWMutex

	conns map[int64]*Conn

	logger zerolog.Logger
}

// NewConnRegistry returns an empty connection registry.
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		conns:  make(map[int64]*Conn),
		logger: logx.Logger().With().Str("component", "ConnRegistry").Logger(),
	}
}

// Register installs c as its user's live connection. Last writer wins: a
// previous connection for the same user is closed with a session-replaced
// close code so the stale socket does not linger until heartbeat eviction.
func (r *ConnRegistry) Register(c *Conn) {
	r.mu.Lock()
	prev := r.conns[c.userID]
	r.conns[c.userID] = c
	count := len(r.conns)
	r.mu.Unlock()

	metrics.ActiveConnections.Set(float64(count))

	if prev != nil && prev != c {
		r.logger.Warn().
			Int64("user_id", c.userID).
			Str("stale_conn_id", prev.id).
			Msg("User reconnected. Closing previous connection.")

		prev.CloseWithCode(CloseCodeSessionReplaced, "session replaced by a newer connection")
	}

	r.logger.Info().
		Int64("user_id", c.userID).
		Str("conn_id", c.id).
		Int("total_connections", count).
		Msg("Connection registered.")
}

// Resolve returns the user's live connection, or nil when the user is
// currently unreachable.
func (r *ConnRegistry) Resolve(userID int64) *Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.conns[userID]
}

// Remove drops c's mapping, but only while it still points at c. A reconnect
// that already replaced the slot is left untouched.
func (r *ConnRegistry) Remove(c *Conn) {
	r.mu.Lock()
	current, ok := r.conns[c.userID]
	if ok && current == c {
		delete(r.conns, c.userID)
	}
	count := len(r.conns)
	r.mu.Unlock()

	if ok && current != c {
		r.logger.Info().
			Int64("user_id", c.userID).
			Str("stale_conn_id", c.id).
			Msg("Ignoring removal of stale connection.")
		return
	}

	metrics.ActiveConnections.Set(float64(count))
}

// Snapshot returns the current set of live connections.
func (r *ConnRegistry) Snapshot() []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}
