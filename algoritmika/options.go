package algoritmika

import (
	"net/http"
	"time"
)

// Option configures a session.
type Option func(*sessionOptions)

// sessionOptions holds configuration options shared by Session and
// AnonymousSession.
type sessionOptions struct {
	baseURL    string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

func defaultOptions() sessionOptions {
	return sessionOptions{
		baseURL:   DefaultBaseURL,
		timeout:   30 * time.Second,
		userAgent: "algoclient",
	}
}

// WithBaseURL points the session at a different origin. Useful for
// staging instances and tests.
func WithBaseURL(baseURL string) Option {
	return func(o *sessionOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *sessionOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *sessionOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient supplies a custom HTTP client. The session copies it
// on login and installs its own cookie jar on the copy, so the
// caller's client is never mutated.
func WithHTTPClient(client *http.Client) Option {
	return func(o *sessionOptions) {
		o.httpClient = client
	}
}
