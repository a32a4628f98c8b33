package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobbyd/internal/handler"
)

// dialWS attempts a websocket upgrade against the test server with the given
// credential headers.
func dialWS(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	if resp != nil {
		t.Cleanup(func() { resp.Body.Close() })
	}
	return conn, resp, err
}

func TestWebSocketUpgradeWithValidToken(t *testing.T) {
	deps, _ := newTestDeps()
	srv := httptest.NewServer(handler.Router(deps))
	defer srv.Close()

	tok, err := deps.Auth.IssueToken(context.Background(), 5)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Id", "5")
	header.Set("Token", tok)

	conn, _, err := dialWS(t, srv, header)
	require.NoError(t, err)
	require.NotNil(t, conn)

	// Registration happens right after the handshake completes.
	require.Eventually(t, func() bool {
		return deps.Conns.Resolve(5) != nil
	}, time.Second, 10*time.Millisecond)
}

func TestWebSocketUpgradeRejections(t *testing.T) {
	deps, _ := newTestDeps()
	srv := httptest.NewServer(handler.Router(deps))
	defer srv.Close()

	tok, err := deps.Auth.IssueToken(context.Background(), 5)
	require.NoError(t, err)

	staleHeader := http.Header{}
	staleHeader.Set("Id", "5")
	staleHeader.Set("Token", "deadbeefdeadbeefdeadbeefdeadbeef")

	missingHeader := http.Header{}

	multiHeader := http.Header{}
	multiHeader.Add("Id", "5")
	multiHeader.Add("Id", "6")
	multiHeader.Set("Token", tok)

	nonNumericHeader := http.Header{}
	nonNumericHeader.Set("Id", "alice")
	nonNumericHeader.Set("Token", tok)

	tests := []struct {
		name   string
		header http.Header
	}{
		{name: "stale token", header: staleHeader},
		{name: "missing credentials", header: missingHeader},
		{name: "multi-valued id header", header: multiHeader},
		{name: "non-numeric id", header: nonNumericHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := dialWS(t, srv, tt.header)

			require.ErrorIs(t, err, websocket.ErrBadHandshake)
			assert.Nil(t, conn)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	assert.Nil(t, deps.Conns.Resolve(5), "rejected upgrades must not register a connection")
}

func TestWebSocketWrongPathIsNotFound(t *testing.T) {
	deps, _ := newTestDeps()
	srv := httptest.NewServer(handler.Router(deps))
	defer srv.Close()

	tok, err := deps.Auth.IssueToken(context.Background(), 5)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/websocket"
	header := http.Header{}
	header.Set("Id", "5")
	header.Set("Token", tok)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if conn != nil {
		conn.Close()
	}
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketReconnectReplacesConnection(t *testing.T) {
	deps, _ := newTestDeps()
	srv := httptest.NewServer(handler.Router(deps))
	defer srv.Close()

	tok, err := deps.Auth.IssueToken(context.Background(), 5)
	require.NoError(t, err)

	header := http.Header{}
	header.Set("Id", "5")
	header.Set("Token", tok)

	first, _, err := dialWS(t, srv, header)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return deps.Conns.Resolve(5) != nil
	}, time.Second, 10*time.Millisecond)
	firstConn := deps.Conns.Resolve(5)

	_, _, err = dialWS(t, srv, header)
	require.NoError(t, err)

	// The registry slot moves to the new connection and the old socket drops.
	require.Eventually(t, func() bool {
		current := deps.Conns.Resolve(5)
		return current != nil && current.ID() != firstConn.ID()
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, first.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = first.ReadMessage()
	assert.Error(t, err, "the replaced connection is closed")
}
