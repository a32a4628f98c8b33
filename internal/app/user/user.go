/*
Package user provides the user identity model and a PostgreSQL-backed account store.

The rest of the system only ever needs a user's numeric ID and display name;
password hashes never leave this package except through VerifyCredentials.
*/
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"lobbyd/internal/app/db"
)

var (
	// ErrNameTaken is returned by Create when the display name is already registered.
	ErrNameTaken = errors.New("user: name already taken")

	// ErrEmailTaken is returned by Create when the email address is already registered.
	ErrEmailTaken = errors.New("user: email already registered")

	// ErrInvalidCredentials is returned by VerifyCredentials when the email is
	// unknown or the password does not match.
	ErrInvalidCredentials = errors.New("user: invalid credentials")
)

// User is the identity handed around the lobby: a stable numeric ID plus the
// display name shown to other players.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Store performs user account operations against PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new user with a bcrypt password hash. Uniqueness of name
// and email is enforced by the database; violations surface as ErrNameTaken
// or ErrEmailTaken.
func (s *Store) Create(ctx context.Context, name, email, pass string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO users (name, email, pass)
		VALUES ($1, $2, $3)
	`, name, email, string(hash))

	switch db.UniqueViolationConstraint(err) {
	case "users_name_key":
		return ErrNameTaken
	case "users_email_key":
		return ErrEmailTaken
	}

	return err
}

// VerifyCredentials checks an email/password pair and returns the matching
// user. Unknown emails and wrong passwords both map to ErrInvalidCredentials;
// anything else is an infrastructure failure.
func (s *Store) VerifyCredentials(ctx context.Context, email, pass string) (*User, error) {
	var (
		u    User
		hash string
	)

	err := s.pool.QueryRow(ctx, `
		SELECT id, name, pass FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Name, &hash)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(pass)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &u, nil
}

// GetByID fetches a user's identity by numeric ID.
func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User

	err := s.pool.QueryRow(ctx, `
		SELECT id, name FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Name)
	if err != nil {
		return nil, err
	}

	return &u, nil
}
