package handler

import (
	"context"

	"lobbyd/internal/app/auth"
	"lobbyd/internal/app/lobby"
	"lobbyd/internal/app/user"
	"lobbyd/internal/configs"
)

// UserStore is the slice of the user account store the handlers depend on.
// Satisfied by *user.Store; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, name, email, pass string) error
	VerifyCredentials(ctx context.Context, email, pass string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// AppDeps bundles the shared state every handler needs. All registries are
// injected instances, never package-level singletons.
type AppDeps struct {
	Config *configs.AppConfig
	Auth   *auth.Service
	Users  UserStore
	Rooms  *lobby.RoomRegistry
	Conns  *lobby.ConnRegistry
}
