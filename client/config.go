package client

import "time"

// Config is the backend client configuration.
type Config struct {
	// Base URL of the RAG backend (e.g., "http://localhost:8000")
	BaseURL string

	// Token is sent as a bearer credential when non-empty.
	Token string

	// RequestTimeout bounds a whole request. Zero means no limit.
	RequestTimeout time.Duration

	// ConnectTimeout bounds dialing the backend.
	ConnectTimeout time.Duration
}
