// Package rag provides the wire representations of the CSV RAG backend's
// requests and responses.
package rag

// ErrorResponse is the structured error body the backend returns on
// failures it handles itself. FastAPI validation failures use Detail instead
// and carry no Message.
type ErrorResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  any    `json:"detail,omitempty"`
}
