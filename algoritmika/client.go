package algoritmika

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// authEndpoint is the credential login endpoint.
const authEndpoint = "/s/auth/api/e/student/auth"

// selfProfileExpand requests every sub-record the self profile view can
// carry. The referral and locations expansions match observed traffic
// but their payloads have no stable shape, so no record field binds them.
const selfProfileExpand = "branch,settings,locations,permissions,avatar,referral,course"

// communityProfileExpand requests the sub-records of a third-party
// profile view.
const communityProfileExpand = "stats,avatars,friends,classmates"

// SortLatest is the default sort key for project and comment listings.
const SortLatest = "latest"

// DefaultPerPage is the page size used when a listing request does not
// specify one.
const DefaultPerPage = 50

// SearchOptions control community project listings.
type SearchOptions struct {
	// StudentID limits the listing to one student's projects. Zero
	// lists the whole community.
	StudentID int
	// Page is 1-based; zero means the first page.
	Page int
	// PerPage falls back to DefaultPerPage when zero.
	PerPage int
	// Sort is the sort key, applied descending. Empty means SortLatest.
	Sort string
}

// Session is an authenticated client for the learning platform, bound to
// one student's credentials.
type Session struct {
	session
	login    string
	password string
}

// NewSession creates a session for the given credentials. No request is
// made until Login is called.
func NewSession(login, password string, logger zerolog.Logger, opts ...Option) *Session {
	return &Session{
		session:  newSession(logger, opts...),
		login:    login,
		password: password,
	}
}

// Login authenticates against the platform. On success the session
// records the student id assigned by the upstream. Logging in twice
// without an intervening Close fails with ErrAlreadyLoggedIn; rejected
// credentials fail with ErrInvalidCredentials.
func (s *Session) Login(ctx context.Context) error {
	body, client, err := s.authenticate(ctx, authEndpoint, map[string]string{
		"login":    s.login,
		"password": s.password,
	})
	if err != nil {
		return err
	}

	var auth struct {
		Item struct {
			StudentID int `json:"studentId"`
		} `json:"item"`
	}
	if err := json.Unmarshal(body, &auth); err != nil {
		return &SchemaError{Field: "item", Reason: err.Error()}
	}
	if auth.Item.StudentID == 0 {
		return &SchemaError{Field: "item.studentId", Reason: "missing"}
	}
	s.open(client)
	s.studentID = auth.Item.StudentID
	s.logger.Info().Int("student_id", s.studentID).Msg("Logged in")
	return nil
}

// Profile fetches the profile of the logged-in student.
func (s *Session) Profile(ctx context.Context) (*SelfProfile, error) {
	params := url.Values{"expand": {selfProfileExpand}}
	body, err := s.get(ctx, "/api/v1/profile", params)
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
	profile, err := parseSelfProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &profile, nil
}

// UserProfile fetches another student's profile by id. The endpoint
// reports a missing student with a soft error marker on the body rather
// than an error status, which maps to ErrNotFound.
func (s *Session) UserProfile(ctx context.Context, studentID int) (*Profile, error) {
	params := url.Values{
		"expand":    {communityProfileExpand},
		"studentId": {strconv.Itoa(studentID)},
	}
	body, err := s.get(ctx, "/api/v2/community/profile/index", params)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if env.Status == "error" {
		return nil, fmt.Errorf("student %d: %w", studentID, ErrNotFound)
	}
	data, err := env.dataObject()
	if err != nil {
		return nil, err
	}
	profile, err := parseProfile(data)
	if err != nil {
		return nil, fmt.Errorf("profile %d: %w", studentID, err)
	}
	return &profile, nil
}

// OwnProjects lists the logged-in student's projects. An empty sort key
// means SortLatest.
func (s *Session) OwnProjects(ctx context.Context, sort string) ([]Project, error) {
	if sort == "" {
		sort = SortLatest
	}
	params := url.Values{
		"sort":  {"-" + sort},
		"scope": {"student"},
		"type":  {projectTypeFilter()},
	}
	return s.fetchProjects(ctx, params)
}

// CommunityProjects lists community projects, optionally scoped to one
// student, with pagination.
func (s *Session) CommunityProjects(ctx context.Context, opts SearchOptions) ([]Project, error) {
	sort := opts.Sort
	if sort == "" {
		sort = SortLatest
	}
	page := opts.Page
	if page == 0 {
		page = 1
	}
	perPage := opts.PerPage
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	params := url.Values{
		"sort":    {"-" + sort},
		"type":    {projectTypeFilter()},
		"page":    {strconv.Itoa(page)},
		"perPage": {strconv.Itoa(perPage)},
	}
	if opts.StudentID != 0 {
		params.Set("scope", "student")
		params.Set("studentId", strconv.Itoa(opts.StudentID))
	} else {
		params.Set("scope", "universe")
	}
	return s.fetchProjects(ctx, params)
}

func (s *Session) fetchProjects(ctx context.Context, params url.Values) ([]Project, error) {
	body, err := s.get(ctx, "/api/v1/projects", params)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	items, err := env.dataList()
	if err != nil {
		return nil, err
	}
	projects := make([]Project, 0, len(items))
	for i, item := range items {
		project, err := parseProject(item)
		if err != nil {
			return nil, fmt.Errorf("project %d: %w", i, err)
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// ProjectByID fetches a single project with its uploads and remix info.
func (s *Session) ProjectByID(ctx context.Context, projectID int) (*Project, error) {
	params := url.Values{"expand": {"uploads,remix"}}
	body, err := s.get(ctx, "/api/v1/projects/info/"+strconv.Itoa(projectID), params)
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
	project, err := parseProject(data)
	if err != nil {
		return nil, fmt.Errorf("project %d: %w", projectID, err)
	}
	return &project, nil
}

// Comments lists a project's comments newest-first. Zero page or perPage
// fall back to the first page and DefaultPerPage.
func (s *Session) Comments(ctx context.Context, projectID, page, perPage int) ([]Comment, error) {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	params := url.Values{
		"page":    {strconv.Itoa(page)},
		"perPage": {strconv.Itoa(perPage)},
		"sort":    {"-createdAt"},
	}
	body, err := s.get(ctx, "/api/v1/projects/comment/"+strconv.Itoa(projectID), params)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	items, err := env.dataList()
	if err != nil {
		return nil, err
	}
	comments := make([]Comment, 0, len(items))
	for i, item := range items {
		comment, err := parseComment(item)
		if err != nil {
			return nil, fmt.Errorf("comment %d: %w", i, err)
		}
		comments = append(comments, comment)
	}
	return comments, nil
}
