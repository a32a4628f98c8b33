package lobby

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newSocketPair upgrades a real websocket connection through an httptest
// server and returns both ends. Cleanup closes both sockets.
func newSocketPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverCh := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverCh <- c
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { client.Close() })

	server = <-serverCh
	t.Cleanup(func() { server.Close() })

	return server, client
}

// newRegisteredConn wires a Conn for userID into reg with its write pump
// running, returning the client end for assertions.
func newRegisteredConn(t *testing.T, reg *ConnRegistry, userID int64) (*Conn, *websocket.Conn) {
	t.Helper()

	sock, client := newSocketPair(t)
	conn := NewConn(userID, sock)
	go conn.WritePump()
	t.Cleanup(func() { conn.Close() })

	reg.Register(conn)

	return conn, client
}
