/*
Package handler provides HTTP handler functions for user sign-up and sign-in.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"unicode/utf8"

	"lobbyd/internal/app/user"
	"lobbyd/internal/pkg/errs"
	"lobbyd/internal/pkg/logx"
	"lobbyd/internal/pkg/req"
	"lobbyd/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type SignUpInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Pass  string `json:"pass"`
}

// HandleSignUp creates a new user account from a name, email, and password.
func HandleSignUp(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SignUpInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		nameLen := utf8.RuneCountInString(input.Name)
		if nameLen < 2 || nameLen > 20 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		passLen := utf8.RuneCountInString(input.Pass)
		if passLen < 6 || passLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		err := deps.Users.Create(r.Context(), input.Name, input.Email, input.Pass)

		switch {
		case errors.Is(err, user.ErrNameTaken):
			resp.RespondError(w, r, errs.NewError(errs.ErrNameTaken))
			return

		case errors.Is(err, user.ErrEmailTaken):
			resp.RespondError(w, r, errs.NewError(errs.ErrEmailExists))
			return

		case err != nil:
			logx.Error(err, "failed to create user")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type SignInInput struct {
	Email string `json:"email"`
	Pass  string `json:"pass"`
}

// HandleSignIn verifies credentials and issues a fresh auth token. The token
// replaces any previously issued token for the same user.
func HandleSignIn(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SignInInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		u, err := deps.Users.VerifyCredentials(r.Context(), input.Email, input.Pass)
		if errors.Is(err, user.ErrInvalidCredentials) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}
		if err != nil {
			logx.Error(err, "credential verification failed", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := deps.Auth.IssueToken(r.Context(), u.ID)
		if err != nil {
			logx.Error(err, "failed to issue token", "user_id", u.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"id":    u.ID,
			"name":  u.Name,
			"token": token,
		})
	}
}
