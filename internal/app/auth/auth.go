/*
Package auth implements short-lived token issuance and validation.

A token is an opaque random hex string stored in the expiring key-value store
under the user's decimal ID. Re-issuing for the same user overwrites the old
token, so at most one token per user is valid at a time; expiry is enforced
entirely by the store's TTL.
*/
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"time"

	"lobbyd/internal/app/token"
	"lobbyd/internal/pkg/metrics"
	"lobbyd/internal/pkg/randx"
)

const (
	// TokenBytes is the number of random bytes in a token (hex doubles the length).
	TokenBytes = 16

	// TokenTTL is how long an issued token stays valid.
	TokenTTL = time.Hour
)

// Service issues and validates auth tokens against an expiring key-value store.
type Service struct {
	store token.Store
}

// NewService returns a Service backed by the given token store.
func NewService(store token.Store) *Service {
	return &Service{store: store}
}

// IssueToken generates a fresh random token for the user and records it with
// the fixed TTL, replacing any previously issued token.
func (s *Service) IssueToken(ctx context.Context, userID int64) (string, error) {
	tok, err := randx.Hex(TokenBytes)
	if err != nil {
		return "", err
	}

	if err := s.store.SetEx(ctx, strconv.FormatInt(userID, 10), tok, TokenTTL); err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()

	return tok, nil
}

// ValidateToken reports whether presented matches the token currently stored
// for userID. An absent or expired token is simply invalid; a store failure
// is returned as an error rather than treated as invalid.
func (s *Service) ValidateToken(ctx context.Context, userID, presented string) (bool, error) {
	stored, err := s.store.Get(ctx, userID)
	if errors.Is(err, token.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Constant-time comparison to avoid leaking the stored token through timing.
	if len(stored) != len(presented) {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1, nil
}
