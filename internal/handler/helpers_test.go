package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"lobbyd/internal/app/auth"
	"lobbyd/internal/app/lobby"
	"lobbyd/internal/app/token"
	"lobbyd/internal/app/user"
	"lobbyd/internal/configs"
	"lobbyd/internal/handler"
	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/resp"
)

func init() {
	logx.InitGlobalLogger(false)
}

// fakeUserStore is an in-memory handler.UserStore.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]user.User
	accts  map[string]fakeAccount // keyed by email
}

type fakeAccount struct {
	user user.User
	pass string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		nextID: 1,
		byID:   make(map[int64]user.User),
		accts:  make(map[string]fakeAccount),
	}
}

func (s *fakeUserStore) Create(ctx context.Context, name, email, pass string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, acct := range s.accts {
		if acct.user.Name == name {
			return user.ErrNameTaken
		}
	}
	if _, ok := s.accts[email]; ok {
		return user.ErrEmailTaken
	}

	u := user.User{ID: s.nextID, Name: name}
	s.nextID++
	s.byID[u.ID] = u
	s.accts[email] = fakeAccount{user: u, pass: pass}
	return nil
}

func (s *fakeUserStore) VerifyCredentials(ctx context.Context, email, pass string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accts[email]
	if !ok || acct.pass != pass {
		return nil, user.ErrInvalidCredentials
	}
	u := acct.user
	return &u, nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return &u, nil
}

// seedUser registers a user directly in the fake store.
func (s *fakeUserStore) seedUser(u user.User, email, pass string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[u.ID] = u
	s.accts[email] = fakeAccount{user: u, pass: pass}
	if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
}

func userWith(id int64, name string) user.User {
	return user.User{ID: id, Name: name}
}

// newTestDeps builds an AppDeps with in-memory stores and fresh registries.
func newTestDeps() (*handler.AppDeps, *fakeUserStore) {
	users := newFakeUserStore()
	conns := lobby.NewConnRegistry()

	deps := &handler.AppDeps{
		Config: &configs.AppConfig{
			Environment:    "development",
			Port:           8080,
			AllowedOrigins: []string{},
		},
		Auth:  auth.NewService(token.NewMemoryStore()),
		Users: users,
		Rooms: lobby.NewRoomRegistry(conns),
		Conns: conns,
	}
	return deps, users
}

// doJSON performs a JSON request against the handler and decodes the envelope.
func doJSON(t *testing.T, h http.Handler, method, target, authHeader string, body any) (int, resp.JSONResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var envelope resp.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	return rec.Code, envelope
}
