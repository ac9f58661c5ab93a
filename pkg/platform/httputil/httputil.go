// Package httputil centralizes JSON encoding and error mapping so handlers
// stay thin and every module speaks the same wire envelope.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "pragati/pkg/domain-errors"
)

// Envelope is the uniform response wrapper.
type Envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Message    string            `json:"message,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// Pagination describes a page of a filtered listing.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

// WriteJSON writes a success envelope with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// WriteMessage writes a success envelope with data and a human message.
func WriteMessage(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, Envelope{Success: true, Data: data, Message: message})
}

// WriteList writes a paginated success envelope.
func WriteList(w http.ResponseWriter, data any, p Pagination) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: &p})
}

// WriteError maps a coded error onto an HTTP status and failure envelope.
// Internal errors carry a generic message only.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	env := Envelope{Success: false, Error: dErrors.MessageOf(err)}
	if code == dErrors.CodeValidation {
		env.Fields = dErrors.FieldsOf(err)
	}
	if code == dErrors.CodeInternal {
		env.Error = "internal server error"
	}
	write(w, statusFor(code), env)
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// maxBodyBytes bounds request bodies; the forms behind this API are small.
const maxBodyBytes = 1 << 20

// Decode reads a JSON body into dst, rejecting unknown weirdness with a
// bad-request error rather than a 500.
func Decode(r *http.Request, dst any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dErrors.New(dErrors.CodeBadRequest, "request body is required")
		}
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid JSON body")
	}
	return nil
}
