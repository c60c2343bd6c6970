package http

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader correlates a client request with backend log lines.
const RequestIDHeader = "X-Request-ID"

type requestIDTransport struct {
	transport http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return t.transport.RoundTrip(req)
	}

	reqCopy := req.Clone(req.Context())
	reqCopy.Header.Set(RequestIDHeader, uuid.NewString())

	return t.transport.RoundTrip(reqCopy)
}

// WithRequestID stamps every outbound request lacking one with a fresh
// X-Request-ID.
func WithRequestID() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &requestIDTransport{transport: rt}
	})
}
