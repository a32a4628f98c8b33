/*
Package lobby contains the in-memory core of the lobby server.

This file defines RoomRegistry, the owner of every Room instance in the
process. Handlers receive the registry by reference; there is no package-level
singleton, so tests get isolated registries for free.
*/
package lobby

import (
	"sync"

	"github.com/rs/zerolog"

	"lobbyd/internal/app/user"
	"lobbyd/internal/pkg/errs"
	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/metrics"
	"lobbyd/internal/pkg/randx"
)

// roomIDBytes is the number of random bytes in a room identifier; the hex
// encoding doubles it on the wire. Collisions are negligible at this length.
const roomIDBytes = 12

// RoomRegistry owns the full set of in-memory rooms.
type RoomRegistry struct {
	// mu protects the rooms map.
	mu sync.RWMutex

	rooms map[string]*Room

	// conns resolves member IDs to live connections at broadcast time.
	conns *ConnRegistry

	logger zerolog.Logger
}

// NewRoomRegistry returns an empty room registry that resolves broadcast
// recipients through conns.
func NewRoomRegistry(conns *ConnRegistry) *RoomRegistry {
	return &RoomRegistry{
		rooms:  make(map[string]*Room),
		conns:  conns,
		logger: logx.Logger().With().Str("component", "RoomRegistry").Logger(),
	}
}

// CreateRoom generates an opaque room ID, seats host as the first member, and
// registers the room process-wide.
func (g *RoomRegistry) CreateRoom(name string, host user.User) (*Room, error) {
	id, err := randx.Hex(roomIDBytes)
	if err != nil {
		return nil, err
	}

	room := newRoom(id, name, host)

	g.mu.Lock()
	g.rooms[id] = room
	count := len(g.rooms)
	g.mu.Unlock()

	metrics.OpenRooms.Set(float64(count))

	g.logger.Info().
		Str("room_id", id).
		Str("room_name", name).
		Int64("host_id", host.ID).
		Msg("Room created.")

	return room, nil
}

// GetRoom returns the room with the given ID, or nil.
func (g *RoomRegistry) GetRoom(id string) *Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.rooms[id]
}

// ListRooms returns a snapshot of all currently known rooms, in no particular
// order.
func (g *RoomRegistry) ListRooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// JoinRoom admits u into the room with the given ID and broadcasts the join
// event. The two failure modes, unknown room and full room, come back as
// distinct error codes; neither mutates any state.
func (g *RoomRegistry) JoinRoom(roomID string, u user.User) (*Room, *errs.CustomError) {
	room := g.GetRoom(roomID)
	if room == nil {
		return nil, errs.NewError(errs.ErrRoomNotFound)
	}

	if customErr := room.join(u, g.conns); customErr != nil {
		return nil, customErr
	}

	metrics.RoomJoins.Inc()

	g.logger.Info().
		Str("room_id", roomID).
		Int64("user_id", u.ID).
		Int("total_members", room.NumMembers()).
		Msg("User joined room.")

	return room, nil
}
