// Package response provides small helpers for writing JSON API responses.
//
// Success bodies are written as-is: their shapes are part of the external
// contract (webhook producers and dashboard consumers depend on them), so
// there is no generic envelope.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody holds details about an API error. Fields lists the payload
// fields that failed validation, when that is what went wrong.
type ErrorBody struct {
	Detail string   `json:"detail"`
	Fields []string `json:"fields,omitempty"`
}

// RespondJSON writes payload as the JSON response body with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

// RespondError writes an error body with the given status code and detail.
func RespondError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorBody{Detail: detail})
}

// RespondValidationError writes a 422 naming the violated fields.
func RespondValidationError(w http.ResponseWriter, detail string, fields []string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorBody{Detail: detail, Fields: fields})
}

// writeJSON encodes v as JSON and writes it to the response writer.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
