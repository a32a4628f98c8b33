package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"lobbyd/internal/pkg/errs"
	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/resp"
)

// contextKey prevents collisions with context values set by other packages.
type contextKey string

// contextUserIDKey stores the authenticated user's ID in the request context.
const contextUserIDKey contextKey = "auth_user_id"

// RequireAuth enforces the `Authorization: "<userId>:<token>"` header. The
// header is split on the first colon and validated against the token store;
// any missing, malformed, or stale credential terminates the request with 401
// before the next handler runs.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		id, tok, found := strings.Cut(header, ":")
		if !found || id == "" || tok == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		userID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		valid, err := s.ValidateToken(r.Context(), id, tok)
		if err != nil {
			logx.Error(err, "token store unavailable during auth check")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !valid {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		ctx := context.WithValue(r.Context(), contextUserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext extracts the authenticated user ID set by RequireAuth.
func UserIDFromContext(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(contextUserIDKey).(int64)
	return userID, ok
}
