// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bureau-foundation/warden/lib/token"
)

// Error is a credential-level failure carried in the response
// envelope at HTTP 200.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Credential errors. ErrInvalidUserNameOrPassword deliberately covers
// unknown username, login disabled, and wrong password: one code, one
// message, same wall-clock time (the handlers pair it with
// password.JunkDelay).
var (
	ErrInvalidUserNameOrPassword = &Error{Code: 1001, Message: "invalid username or password"}
	ErrIllegalUserName           = &Error{Code: 1002, Message: "illegal username"}
	ErrIllegalPassword           = &Error{Code: 1003, Message: "illegal password"}
	ErrUsernameAlreadyExist      = &Error{Code: 1004, Message: "username already exists"}
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a map of marshallable values cannot fail; a broken
	// connection surfaces in the server logs, not here.
	_ = json.NewEncoder(w).Encode(body)
}

// WriteData writes a 200 response with the data envelope.
func WriteData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// WriteError writes a credential error at HTTP 200.
func WriteError(w http.ResponseWriter, e *Error) {
	writeJSON(w, http.StatusOK, map[string]any{"error": e})
}

// WriteStatus writes an error envelope with the given HTTP status;
// the status doubles as the error code.
func WriteStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": &Error{Code: status, Message: message}})
}

// WriteInternal writes a generic 500. Details stay in the logs.
func WriteInternal(w http.ResponseWriter) {
	WriteStatus(w, http.StatusInternalServerError, "internal server error")
}

// WriteTokenError maps a token validation failure to its HTTP status.
// Messages are fixed per status so indistinguishable cases stay
// indistinguishable.
func WriteTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, token.ErrUnauthorized):
		WriteStatus(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, token.ErrSignatureVerificationFail),
		errors.Is(err, token.ErrExpiredAccessToken):
		WriteStatus(w, http.StatusUnauthorized, "invalid access token")
	case errors.Is(err, token.ErrBadSignedMessageEncoding),
		errors.Is(err, token.ErrBadAccessTokenEncoding):
		WriteStatus(w, http.StatusBadRequest, "bad access token")
	case errors.Is(err, token.ErrForbidden):
		WriteStatus(w, http.StatusForbidden, "forbidden")
	default:
		WriteInternal(w)
	}
}

// maxBodyBytes bounds request bodies; every request here is a small
// JSON document.
const maxBodyBytes = 1 << 20

// ReadJSON decodes the request body into v. The caller maps a non-nil
// error to a 400 response.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}
