/*
Package lobby contains the in-memory core of the lobby server.

This file defines Room, a capacity-bounded set of members waiting for a game.
The capacity check and the membership insert always run under the same lock,
so concurrent joins can never push a room past MaxMembers.
*/
package lobby

import (
	"encoding/json"
	"sync"

	"lobbyd/internal/app/user"
	"lobbyd/internal/pkg/errs"
)

// MaxMembers is the membership capacity of every room.
const MaxMembers = 5

// Member is one user's seat in a room.
type Member struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	IsReady bool   `json:"isReady"`
}

// RoomInfo is the serializable snapshot of a room. Map keys marshal as the
// decimal user ID.
type RoomInfo struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Users map[int64]Member `json:"users"`
}

// joinEvent is the frame fanned out to room members when someone joins.
type joinEvent struct {
	Channel string `json:"channel"`
	ID      int64  `json:"id"`
	Name    string `json:"name"`
}

// Room is a single lobby room. The host is always its first member.
type Room struct {
	id   string
	name string

	// mu serializes membership mutation per room.
	mu      sync.RWMutex
	members map[int64]Member
}

// newRoom constructs a room with the host seated as its first member.
func newRoom(id, name string, host user.User) *Room {
	r := &Room{
		id:      id,
		name:    name,
		members: make(map[int64]Member),
	}
	r.members[host.ID] = Member{ID: host.ID, Name: host.Name}
	return r
}

// ID returns the room's opaque identifier.
func (r *Room) ID() string {
	return r.id
}

// Name returns the room's display name.
func (r *Room) Name() string {
	return r.name
}

// NumMembers returns the current member count.
func (r *Room) NumMembers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members)
}

// IsFull reports whether the room is at capacity.
func (r *Room) IsFull() bool {
	return r.NumMembers() >= MaxMembers
}

// Snapshot returns a copy of the room safe for serialization.
func (r *Room) Snapshot() RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make(map[int64]Member, len(r.members))
	for id, m := range r.members {
		users[id] = m
	}

	return RoomInfo{ID: r.id, Name: r.name, Users: users}
}

// join admits u and broadcasts the join event to every member with a live
// connection. Returns ErrRoomIsFull without mutating membership when the room
// is at capacity. The broadcast happens after the insert, under the same
// lock, so the new membership is visible to any later snapshot or join.
func (r *Room) join(u user.User, conns *ConnRegistry) *errs.CustomError {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.members) >= MaxMembers {
		return errs.NewError(errs.ErrRoomIsFull)
	}

	r.members[u.ID] = Member{ID: u.ID, Name: u.Name}

	frame, err := json.Marshal(joinEvent{Channel: "join", ID: u.ID, Name: u.Name})
	if err != nil {
		// joinEvent contains nothing unmarshalable; keep the admit anyway.
		return nil
	}

	r.broadcastLocked(frame, conns)

	return nil
}

// broadcastLocked fans frame out to every member whose user ID resolves to a
// live connection. Members without one are skipped. Sends are non-blocking
// enqueues, so one dead or slow recipient never aborts delivery to the rest.
func (r *Room) broadcastLocked(frame []byte, conns *ConnRegistry) {
	for id := range r.members {
		c := conns.Resolve(id)
		if c == nil {
			continue
		}

		if !c.Enqueue(frame) {
			c.logger.Warn().
				Str("room_id", r.id).
				Msg("Send queue full, dropping join event for this recipient.")
		}
	}
}
