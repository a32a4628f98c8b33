/*
Package handler provides HTTP handler functions for room creation, listing, and joining.
*/
package handler

import (
	"net/http"

	"lobbyd/internal/app/auth"
	"lobbyd/internal/app/lobby"
	"lobbyd/internal/pkg/errs"
	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/req"
	"lobbyd/internal/pkg/resp"
)

type CreateRoomInput struct {
	RoomName string `json:"roomName"`
}

// HandleCreateRoom creates a new room hosted by the authenticated user and
// returns its snapshot.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateRoomInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.RoomName == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		host, err := deps.Users.GetByID(r.Context(), userID)
		if err != nil {
			logx.Error(err, "failed to fetch host user", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		room, err := deps.Rooms.CreateRoom(input.RoomName, *host)
		if err != nil {
			logx.Error(err, "failed to create room", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, room.Snapshot())
	}
}

// HandleListRooms returns a snapshot of every currently known room.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := deps.Rooms.ListRooms()

		data := make([]lobby.RoomInfo, 0, len(rooms))
		for _, room := range rooms {
			data = append(data, room.Snapshot())
		}

		resp.RespondSuccess(w, r, data)
	}
}

type JoinRoomInput struct {
	RoomID string `json:"roomId"`
}

// HandleJoinRoom admits the authenticated user into a room. The join event is
// broadcast to the room's live members before the response goes out.
func HandleJoinRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input JoinRoomInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		u, err := deps.Users.GetByID(r.Context(), userID)
		if err != nil {
			logx.Error(err, "failed to fetch joining user", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		room, customErr := deps.Rooms.JoinRoom(input.RoomID, *u)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, room.Snapshot())
	}
}
