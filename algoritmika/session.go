package algoritmika

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// state is the session lifecycle position. A closed session behaves like
// an unauthenticated one for every request; Login is valid from both.
type state int

const (
	stateUnauthenticated state = iota
	stateAuthenticated
	stateClosed
)

// session carries the authenticated transport and the operations shared
// by Session and AnonymousSession. It is not safe for concurrent use;
// callers needing parallelism should create independent sessions.
type session struct {
	opts       sessionOptions
	httpClient *http.Client
	state      state
	studentID  int
	logger     zerolog.Logger
}

func newSession(logger zerolog.Logger, opts ...Option) session {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return session{
		opts:   options,
		logger: logger,
	}
}

// StudentID returns the authenticated student's id, or 0 when the
// session is not authenticated as a specific student.
func (s *session) StudentID() int {
	return s.studentID
}

// Close releases the transport. Subsequent requests fail with
// ErrSessionClosed until Login is called again.
func (s *session) Close() {
	s.httpClient = nil
	s.state = stateClosed
	s.studentID = 0
	s.logger.Debug().Msg("Session closed")
}

// authenticate runs the shared login flow: it builds a fresh transport
// with its own cookie jar and posts the given payload to an auth
// endpoint. The upstream responds 400 on rejected credentials. The
// session state is untouched; callers validate the success body and
// then commit the returned transport via open, so a login that fails at
// any stage leaves the session unauthenticated.
func (s *session) authenticate(ctx context.Context, endpoint string, payload any) ([]byte, *http.Client, error) {
	if s.state == stateAuthenticated {
		return nil, nil, ErrAlreadyLoggedIn
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	var client *http.Client
	if s.opts.httpClient != nil {
		// copy so the caller-supplied client keeps its own jar
		clone := *s.opts.httpClient
		client = &clone
	} else {
		client = &http.Client{Timeout: s.opts.timeout}
	}
	client.Jar = jar

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode auth payload: %w", err)
	}

	requestURL := s.opts.baseURL + endpoint
	s.logger.Debug().Str("url", requestURL).Msg("Authenticating")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.opts.userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest:
		return nil, nil, ErrInvalidCredentials
	default:
		return nil, nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, client, nil
}

// open installs an authenticated transport and marks the session
// authenticated.
func (s *session) open(client *http.Client) {
	s.httpClient = client
	s.state = stateAuthenticated
}

// doRequest performs an HTTP request on the authenticated transport.
func (s *session) doRequest(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]byte, error) {
	if s.state != stateAuthenticated {
		return nil, ErrSessionClosed
	}

	requestURL := s.opts.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.opts.userAgent)

	s.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making algoritmika API request")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (s *session) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	return s.doRequest(ctx, http.MethodGet, endpoint, params, nil)
}

func (s *session) post(ctx context.Context, endpoint string, params url.Values, payload any) ([]byte, error) {
	return s.doRequest(ctx, http.MethodPost, endpoint, params, payload)
}

func (s *session) del(ctx context.Context, endpoint string) ([]byte, error) {
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// envelope is the standard response wrapper: the useful payload sits
// under "data", and some endpoints mark soft failures with
// status == "error" on an otherwise successful response.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("failed to parse response: %w", err)
	}
	return env, nil
}

func (e envelope) dataObject() (object, error) {
	if e.Data == nil {
		return nil, &SchemaError{Field: "data", Reason: "missing"}
	}
	var m map[string]any
	if err := json.Unmarshal(e.Data, &m); err != nil {
		return nil, &SchemaError{Field: "data", Reason: err.Error()}
	}
	return object(m), nil
}

func (e envelope) dataList() ([]object, error) {
	if e.Data == nil {
		return nil, &SchemaError{Field: "data", Reason: "missing"}
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(e.Data, &raw); err != nil {
		return nil, &SchemaError{Field: "data", Reason: err.Error()}
	}
	out := make([]object, 0, len(raw))
	for i, r := range raw {
		var m map[string]any
		if err := json.Unmarshal(r, &m); err != nil {
			return nil, &SchemaError{Field: "data", Reason: fmt.Sprintf("element %d: %s", i, err)}
		}
		out = append(out, object(m))
	}
	return out, nil
}

// React places a reaction on a project.
func (s *session) React(ctx context.Context, projectID int, reaction Reaction) error {
	return s.sendReaction(ctx, "/api/v2/community/reaction/add", projectID, reaction)
}

// Unreact removes a previously placed reaction from a project.
func (s *session) Unreact(ctx context.Context, projectID int, reaction Reaction) error {
	return s.sendReaction(ctx, "/api/v2/community/reaction/remove", projectID, reaction)
}

func (s *session) sendReaction(ctx context.Context, endpoint string, projectID int, reaction Reaction) error {
	if !reaction.Valid() {
		return fmt.Errorf("unknown reaction kind %q", reaction)
	}
	_, err := s.post(ctx, endpoint, nil, map[string]any{
		"ownerId":   projectID,
		"ownerType": "project_relation",
		"type":      string(reaction),
	})
	return err
}

// PostComment posts a comment on a project. A non-zero parentID makes
// the comment a threaded reply to an existing comment.
func (s *session) PostComment(ctx context.Context, projectID int, message string, parentID int) (*Comment, error) {
	payload := map[string]any{"message": message}
	if parentID != 0 {
		payload["parentCommentId"] = parentID
	}
	body, err := s.post(ctx, "/api/v1/projects/comment/"+strconv.Itoa(projectID), nil, payload)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	data, err := env.dataObject()
	if err != nil {
		return nil, err
	}
	comment, err := parseComment(data)
	if err != nil {
		return nil, fmt.Errorf("comment: %w", err)
	}
	return &comment, nil
}

// DeleteComment deletes a comment by id.
func (s *session) DeleteComment(ctx context.Context, commentID int) error {
	_, err := s.del(ctx, "/api/v1/projects/comment/"+strconv.Itoa(commentID))
	return err
}

// ParseID validates a string id at the boundary, before anything is sent
// upstream. It returns ErrInvalidID (wrapped) for non-integer input.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidID)
	}
	return id, nil
}
