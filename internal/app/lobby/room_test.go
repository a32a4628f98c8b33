package lobby

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lobbyd/internal/app/user"
	"lobbyd/internal/pkg/errs"
)

func readFrame(t *testing.T, client interface {
	SetReadDeadline(time.Time) error
	ReadMessage() (int, []byte, error)
}) string {
	t.Helper()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, frame, err := client.ReadMessage()
	require.NoError(t, err)
	return string(frame)
}

func TestCreateRoomSeatsHostFirst(t *testing.T) {
	reg := NewConnRegistry()
	rooms := NewRoomRegistry(reg)

	room, err := rooms.CreateRoom("Noobs welcome", user.User{ID: 1, Name: "bob"})
	require.NoError(t, err)

	assert.Len(t, room.ID(), 24, "room ID should be 12 random bytes hex-encoded")
	assert.Equal(t, "Noobs welcome", room.Name())
	assert.Equal(t, 1, room.NumMembers())

	snap := room.Snapshot()
	require.Contains(t, snap.Users, int64(1))
	assert.Equal(t, Member{ID: 1, Name: "bob", IsReady: false}, snap.Users[1])
}

func TestJoinBroadcastsExactPayload(t *testing.T) {
	reg := NewConnRegistry()
	rooms := NewRoomRegistry(reg)

	room, err := rooms.CreateRoom("Noobs welcome", user.User{ID: 1, Name: "bob"})
	require.NoError(t, err)

	_, hostClient := newRegisteredConn(t, reg, 1)

	// The joiner has no live connection; being skipped must not fail the join.
	joined, customErr := rooms.JoinRoom(room.ID(), user.User{ID: 7, Name: "alice"})
	require.Nil(t, customErr)
	assert.Equal(t, 2, joined.NumMembers())

	assert.Equal(t, `{"channel":"join","id":7,"name":"alice"}`, readFrame(t, hostClient))
}

func TestJoinDeliversToAllLiveMembers(t *testing.T) {
	reg := NewConnRegistry()
	rooms := NewRoomRegistry(reg)

	room, err := rooms.CreateRoom("squad", user.User{ID: 1, Name: "bob"})
	require.NoError(t, err)

	_, hostClient := newRegisteredConn(t, reg, 1)
	_, aliceClient := newRegisteredConn(t, reg, 2)

	_, customErr := rooms.JoinRoom(room.ID(), user.User{ID: 2, Name: "alice"})
	require.Nil(t, customErr)

	// Both the host and the joiner hold live connections, so both get the event.
	want := `{"channel":"join","id":2,"name":"alice"}`
	assert.Equal(t, want, readFrame(t, hostClient))
	assert.Equal(t, want, readFrame(t, aliceClient))
}

func TestJoinRoomNotFound(t *testing.T) {
	reg := NewConnRegistry()
	rooms := NewRoomRegistry(reg)

	_, customErr := rooms.JoinRoom("ffffffffffffffffffffffff", user.User{ID: 7, Name: "alice"})
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrRoomNotFound, customErr.Code)

	assert.Empty(t, rooms.ListRooms(), "a failed join must not create a room")
}

func TestJoinRoomCapacity(t *testing.T) {
	reg := NewConnRegistry()
	rooms := NewRoomRegistry(reg)

	room, err := rooms.CreateRoom("Noobs welcome", user.User{ID: 1, Name: "bob"})
	require.NoError(t, err)

	for i := int64(2); i <= 5; i++ {
		_, customErr := rooms.JoinRoom(room.ID(), user.User{ID: i, Name: fmt.Sprintf("user%d", i)})
		require.Nil(t, customErr, "join %d should succeed", i)
	}
	assert.Equal(t, MaxMembers, room.NumMembers())

	_, customErr := rooms.JoinRoom(room.ID(), user.User{ID: 6, Name: "latecomer"})
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrRoomIsFull, customErr.Code)
	assert.Equal(t, MaxMembers, room.NumMembers(), "a rejected join must not mutate membership")
}

func TestConcurrentJoinsNeverExceedCapacity(t *testing.T) {
	reg := NewConnRegistry()
	rooms := NewRoomRegistry(reg)

	room, err := rooms.CreateRoom("rush", user.User{ID: 1, Name: "bob"})
	require.NoError(t, err)

	const attempts = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()

			_, customErr := rooms.JoinRoom(room.ID(), user.User{ID: id, Name: fmt.Sprintf("user%d", id)})

			mu.Lock()
			defer mu.Unlock()
			if customErr == nil {
				succeeded++
			} else if customErr.Code == errs.ErrRoomIsFull {
				full++
			}
		}(int64(i + 2))
	}

	wg.Wait()

	assert.Equal(t, MaxMembers, room.NumMembers())
	assert.Equal(t, MaxMembers-1, succeeded, "host seat plus four joins fill the room")
	assert.Equal(t, attempts-(MaxMembers-1), full)
}

func TestListRoomsSnapshotIsIdempotent(t *testing.T) {
	reg := NewConnRegistry()
	rooms := NewRoomRegistry(reg)

	for i := 0; i < 3; i++ {
		_, err := rooms.CreateRoom(fmt.Sprintf("room %d", i), user.User{ID: int64(i + 1), Name: "host"})
		require.NoError(t, err)
	}

	ids := func(list []*Room) []string {
		out := make([]string, 0, len(list))
		for _, r := range list {
			out = append(out, r.ID())
		}
		return out
	}

	first := rooms.ListRooms()
	second := rooms.ListRooms()

	assert.Len(t, first, 3)
	assert.ElementsMatch(t, ids(first), ids(second))
}
