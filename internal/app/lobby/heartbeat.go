/*
Package lobby contains the in-memory core of the lobby server.

This file defines the heartbeat Monitor. Each sweep, a connection that never
answered the previous probe is terminated and deregistered; every survivor is
flagged as pending and probed again. A connection that goes silent is
therefore detected within one to two intervals.
*/
package lobby

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/metrics"
)

// ProbeInterval is the default delay between liveness sweeps.
const ProbeInterval = 30 * time.Second

// Monitor periodically probes every live connection and evicts the dead ones.
type Monitor struct {
	conns    *ConnRegistry
	interval time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger zerolog.Logger
}

// NewMonitor returns a Monitor sweeping conns at the given interval.
func NewMonitor(conns *ConnRegistry, interval time.Duration) *Monitor {
	return &Monitor{
		conns:    conns,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logx.Logger().With().Str("component", "HeartbeatMonitor").Logger(),
	}
}

// Run sweeps until Stop is called. It must run in its own goroutine.
func (m *Monitor) Run() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info().Dur("interval", m.interval).Msg("Heartbeat monitor started.")

	for {
		select {
		case <-ticker.C:
			m.sweep()

		case <-m.stop:
			m.logger.Info().Msg("Heartbeat monitor stopped.")
			return
		}
	}
}

// Stop cancels the ticking and waits for the Run loop to exit, so no timer
// leaks past shutdown. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

// sweep terminates every connection that missed the previous probe and sends
// a fresh probe to the rest.
func (m *Monitor) sweep() {
	for _, c := range m.conns.Snapshot() {
		if !c.beginProbe() {
			m.logger.Info().
				Int64("user_id", c.userID).
				Str("conn_id", c.id).
				Msg("Connection missed heartbeat. Terminating.")

			metrics.HeartbeatTerminations.Inc()
			c.Close()
			m.conns.Remove(c)
			continue
		}

		if err := c.ping(); err != nil {
			// The socket is already unwritable; no point waiting another interval.
			m.logger.Info().
				Int64("user_id", c.userID).
				Str("conn_id", c.id).
				Err(err).
				Msg("Heartbeat probe write failed. Terminating.")

			metrics.HeartbeatTerminations.Inc()
			c.Close()
			m.conns.Remove(c)
		}
	}
}
