// Package algoritmika provides a client for the learn.algoritmika.org
// student API.
//
// The platform exposes student profiles, community projects, comments and
// reactions over JSON endpoints behind a cookie-based login. This package
// wraps that surface with typed records and a small session state machine.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Session / AnonymousSession: the authenticated transport and the
//     mapping from named actions to HTTP calls
//   - Types: immutable records parsed from raw response mappings
//     (profiles, projects, comments, reactions)
//   - Errors: sentinel errors and structured error types for
//     classification with errors.Is / errors.As
//
// # Usage
//
// Create a session with student credentials and log in:
//
//	logger := zerolog.New(os.Stderr)
//	session := algoritmika.NewSession("login", "password", logger)
//	if err := session.Login(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer session.Close()
//
//	profile, err := session.Profile(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("logged in as %s (id %d)\n", profile, profile.ID)
//
// # Session lifecycle
//
// A session starts unauthenticated. Login transitions it to
// authenticated and records the student id the upstream assigned; Close
// drops the transport, after which every request fails with
// ErrSessionClosed until Login is called again. Logging in while already
// authenticated fails with ErrAlreadyLoggedIn and changes nothing.
//
// A session is not safe for concurrent use. Callers that need
// parallelism should create independent sessions.
//
// # Anonymous sessions
//
// AnonymousSession authenticates through the platform's promotional
// identity instead of student credentials and exposes only the community
// actions (React, Unreact, PostComment, DeleteComment).
//
// # Error handling
//
// Failures are classified by kind:
//
//   - ErrInvalidCredentials: the upstream rejected the login
//   - ErrAlreadyLoggedIn: Login called on an authenticated session
//   - ErrSessionClosed: a request was made outside the authenticated state
//   - ErrNotFound: the upstream reported the entity missing
//   - *APIError: an unexpected status, carrying the raw body
//   - *SchemaError: a response field was absent, null, or mistyped
//
// Transport-level failures (DNS, connection resets, timeouts) are not
// translated; they propagate wrapped from net/http.
//
//	if errors.Is(err, algoritmika.ErrNotFound) {
//		// the student id does not exist
//	}
package algoritmika
