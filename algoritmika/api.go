package algoritmika

import "context"

// CommunityActions is the action subset available to every session,
// including anonymous ones.
type CommunityActions interface {
	// React places a reaction on a project
	React(ctx context.Context, projectID int, reaction Reaction) error

	// Unreact removes a reaction from a project
	Unreact(ctx context.Context, projectID int, reaction Reaction) error

	// PostComment posts a comment, optionally as a reply
	PostComment(ctx context.Context, projectID int, message string, parentID int) (*Comment, error)

	// DeleteComment deletes a comment by id
	DeleteComment(ctx context.Context, commentID int) error
}

// API is the full operation surface of a credentialed session.
type API interface {
	CommunityActions

	// Login authenticates the session
	Login(ctx context.Context) error

	// Close releases the authenticated transport
	Close()

	// StudentID returns the authenticated student's id
	StudentID() int

	// Profile fetches the logged-in student's profile
	Profile(ctx context.Context) (*SelfProfile, error)

	// UserProfile fetches another student's profile
	UserProfile(ctx context.Context, studentID int) (*Profile, error)

	// OwnProjects lists the logged-in student's projects
	OwnProjects(ctx context.Context, sort string) ([]Project, error)

	// CommunityProjects lists community projects with pagination
	CommunityProjects(ctx context.Context, opts SearchOptions) ([]Project, error)

	// ProjectByID fetches a single project
	ProjectByID(ctx context.Context, projectID int) (*Project, error)

	// Comments lists a project's comments newest-first
	Comments(ctx context.Context, projectID, page, perPage int) ([]Comment, error)
}

// Interface conformance checks.
var (
	_ API              = (*Session)(nil)
	_ CommunityActions = (*AnonymousSession)(nil)
)
