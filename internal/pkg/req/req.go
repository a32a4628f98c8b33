/*
Package req provides helpers for HTTP request parsing and data binding.

It wraps JSON decoding with strict content-type and body checks so handlers
receive either a fully bound struct or a ready-to-send domain error.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"lobbyd/internal/pkg/errs"
)

// MaxBodySize caps the request body accepted by BindJSON.
const MaxBodySize int64 = 1 << 20 // 1 MB

// BindJSON binds the JSON request body to dst. Unknown fields, trailing
// content, and non-JSON content types are rejected.
func BindJSON(w http.ResponseWriter, r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
