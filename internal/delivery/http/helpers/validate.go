package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs. An empty result means valid.
type Validator interface {
	Validate() []string
}

type decodeError struct {
	status int
	code   string
	msg    string
}

// decodeJSON reads exactly one JSON value into dest. Unknown fields and
// trailing content are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) *decodeError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dest)
	if err == nil && !errors.Is(dec.Decode(&struct{}{}), io.EOF) {
		err = errors.New("request body must contain a single JSON object")
	}

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return &decodeError{
			status: http.StatusRequestEntityTooLarge,
			code:   ErrCodePayloadTooLarge,
			msg:    fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
		}
	case errors.Is(err, io.EOF):
		return &decodeError{status: http.StatusBadRequest, code: ErrCodeBadRequest, msg: "request body is empty"}
	default:
		return &decodeError{status: http.StatusBadRequest, code: ErrCodeBadRequest, msg: err.Error()}
	}
}

// DecodeAndValidate fills dest from the request body and runs its
// Validate method when present. On failure the error response is already
// written and false is returned.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if derr := decodeJSON(w, r, dest); derr != nil {
		WriteJSONError(w, derr.status, derr.code, derr.msg)
		return false
	}

	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if problems := v.Validate(); len(problems) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(problems, "; "))
		return false
	}
	return true
}
