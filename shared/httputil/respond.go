package httputil

import (
	"encoding/json"
	"net/http"
)

// Error codes carried in failure envelopes.
const (
	CodeValidationError      = "validation-error"
	CodeAccountNotAvailable  = "account-not-available"
	CodeEmailNotFound        = "email-not-found"
	CodeVerificationNotFound = "verification-code-not-found"
	CodeNoUpdatableField     = "no-updatable-field"
	CodeInvalidCredentials   = "invalid-credentials"
	CodeInvalidToken         = "invalid-token"
	CodeServerError          = "server-error"
)

// Envelope is the uniform response shape. Success responses carry Message and
// Data; failures carry Error (a machine-readable code) and Messages.
type Envelope struct {
	Status   int      `json:"status"`
	Message  string   `json:"message,omitempty"`
	Error    string   `json:"error,omitempty"`
	Messages []string `json:"messages,omitempty"`
	Data     any      `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(envelope.Status)
	_ = json.NewEncoder(w).Encode(envelope)
}

// Respond writes a success envelope.
func Respond(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, Envelope{Status: status, Message: message, Data: data})
}

// RespondCreated writes a 201 success envelope.
func RespondCreated(w http.ResponseWriter, message string, data any) {
	Respond(w, http.StatusCreated, message, data)
}

// FailValidation writes a 422 envelope carrying every collected violation.
func FailValidation(w http.ResponseWriter, code string, messages []string) {
	writeJSON(w, Envelope{Status: http.StatusUnprocessableEntity, Error: code, Messages: messages})
}

// FailNotFound writes a 404 envelope.
func FailNotFound(w http.ResponseWriter, code, message string) {
	writeJSON(w, Envelope{Status: http.StatusNotFound, Error: code, Messages: []string{message}})
}

// FailUnauthorized writes a 401 envelope.
func FailUnauthorized(w http.ResponseWriter, code, message string) {
	writeJSON(w, Envelope{Status: http.StatusUnauthorized, Error: code, Messages: []string{message}})
}

// FailServer writes a generic 500 envelope. Internals are never leaked to the
// client; the caller is responsible for logging the underlying error.
func FailServer(w http.ResponseWriter) {
	writeJSON(w, Envelope{Status: http.StatusInternalServerError, Error: CodeServerError, Messages: []string{"Something went wrong"}})
}
