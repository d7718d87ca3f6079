package algoritmika

import (
	"fmt"
	"strings"
	"time"
)

// DefaultBaseURL is the origin of the learning platform. Canonical entity
// URLs and upload URLs always point here regardless of what base URL a
// session was configured with.
const DefaultBaseURL = "https://learn.algoritmika.org"

// Reaction is one of the engagement markers a viewer can place on a project.
type Reaction string

// Available reaction kinds.
const (
	ReactionLike Reaction = "like"
	ReactionLove Reaction = "love"
	ReactionFire Reaction = "fire"
)

// Valid reports whether r is one of the known reaction kinds.
func (r Reaction) Valid() bool {
	switch r {
	case ReactionLike, ReactionLove, ReactionFire:
		return true
	}
	return false
}

// ProjectType identifies which editor a project was built in.
type ProjectType string

// Known project types.
const (
	ProjectTypeDesign       ProjectType = "design"
	ProjectTypeGameDesign   ProjectType = "gamedesign"
	ProjectTypeImages       ProjectType = "images"
	ProjectTypePresentation ProjectType = "presentation"
	ProjectTypePython       ProjectType = "python"
	ProjectTypeScratch      ProjectType = "scratch"
	ProjectTypeUnity        ProjectType = "unity"
	ProjectTypeVideo        ProjectType = "video"
	ProjectTypeVSCode       ProjectType = "vscode"
	ProjectTypeWebsite      ProjectType = "website"
)

// projectTypes is the fixed type filter applied to every project listing.
var projectTypes = []ProjectType{
	ProjectTypeDesign, ProjectTypeGameDesign, ProjectTypeImages,
	ProjectTypePresentation, ProjectTypePython, ProjectTypeScratch,
	ProjectTypeUnity, ProjectTypeVideo, ProjectTypeVSCode, ProjectTypeWebsite,
}

func projectTypeFilter() string {
	parts := make([]string, len(projectTypes))
	for i, t := range projectTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// FriendStatus is the relationship between the viewer and a fetched profile.
type FriendStatus string

// Relationship values.
const (
	FriendStatusNone   FriendStatus = ""
	FriendStatusFollow FriendStatus = "follow"
	FriendStatusFriend FriendStatus = "friend"
)

// sharingModePrivate is stripped from a project's sharing modes before
// they are exposed as its availability.
const sharingModePrivate = "private"

func profileURL(id int) string {
	return fmt.Sprintf("%s/student-profile?profileId=%d", DefaultBaseURL, id)
}

func projectURL(id int) string {
	return fmt.Sprintf("%s/community?projectId=%d", DefaultBaseURL, id)
}

// Branch is the learning location a student is enrolled at.
type Branch struct {
	ID        int
	BrandName string
	Title     string
	Code      string
	Phone     string
	SiteURL   string
}

func parseBranch(o object) (b Branch, err error) {
	if b.ID, err = o.num("id"); err != nil {
		return b, err
	}
	if b.BrandName, err = o.str("brandName"); err != nil {
		return b, err
	}
	if b.Title, err = o.str("title"); err != nil {
		return b, err
	}
	if b.Code, err = o.str("code"); err != nil {
		return b, err
	}
	if b.Phone, err = o.optStr("phone"); err != nil {
		return b, err
	}
	if b.SiteURL, err = o.optStr("siteUrl"); err != nil {
		return b, err
	}
	return b, nil
}

func (b Branch) String() string { return b.Title }

// Ban is a student's ban status. ExpiresAt is nil when no expiry is set.
type Ban struct {
	IsBanned  bool
	Reason    string
	ExpiresAt *time.Time
}

func parseBan(o object) (b Ban, err error) {
	if b.IsBanned, err = o.flag("active"); err != nil {
		return b, err
	}
	if b.Reason, err = o.optStr("reason"); err != nil {
		return b, err
	}
	if b.ExpiresAt, err = o.optDateTime("expiresAt"); err != nil {
		return b, err
	}
	return b, nil
}

// Settings is a student's editor configuration.
type Settings struct {
	AllowedFileExtensions []string
	VSCodeFileNamePattern string
	ProsveshenieToken     string
}

func parseSettings(o object) (s Settings, err error) {
	ext, err := o.str("platformUploadFileExtensions")
	if err != nil {
		return s, err
	}
	s.AllowedFileExtensions = strings.Split(ext, " ")
	if s.VSCodeFileNamePattern, err = o.str("vscodeFileNamePattern"); err != nil {
		return s, err
	}
	if s.ProsveshenieToken, err = o.str("prosveshenieToken"); err != nil {
		return s, err
	}
	return s, nil
}

// Course is the course a student is taking, including its gamification
// thresholds.
type Course struct {
	ID                      int
	Name                    string
	DisplayName             string
	Description             string
	GamificationEnabled     bool
	GamificationLevelPoints int
	GamificationBonusPoints int
}

func parseCourse(o object) (c Course, err error) {
	if c.ID, err = o.num("id"); err != nil {
		return c, err
	}
	if c.Name, err = o.str("name"); err != nil {
		return c, err
	}
	if c.DisplayName, err = o.str("displayName"); err != nil {
		return c, err
	}
	if c.Description, err = o.optStr("description"); err != nil {
		return c, err
	}
	gam, err := o.object("gamification")
	if err != nil {
		return c, err
	}
	if c.GamificationEnabled, err = gam.flag("isEnabled"); err != nil {
		return c, err
	}
	if c.GamificationLevelPoints, err = gam.num("regularLevelPoints"); err != nil {
		return c, err
	}
	if c.GamificationBonusPoints, err = gam.num("bonusLevelPoints"); err != nil {
		return c, err
	}
	return c, nil
}

func (c Course) String() string { return c.DisplayName }

// UserStats holds a profile's counters. Liked reports whether the current
// viewer has liked the profile; endpoints that omit the flag leave it false.
type UserStats struct {
	Classmates  int
	Projects    int
	Views       int
	Likes       int
	Reactions   int
	Friends     int
	Followers   int
	Following   int
	Avatars     int
	AvatarItems int
	Lootboxes   int
	Liked       bool
}

func parseUserStats(o object) (s UserStats, err error) {
	if s.Classmates, err = o.num("totalClassmates"); err != nil {
		return s, err
	}
	if s.Projects, err = o.num("totalProjectCount"); err != nil {
		return s, err
	}
	if s.Views, err = o.num("totalProjectViews"); err != nil {
		return s, err
	}
	if s.Likes, err = o.num("totalProjectLikes"); err != nil {
		return s, err
	}
	if s.Reactions, err = o.num("totalReactions"); err != nil {
		return s, err
	}
	if s.Friends, err = o.num("totalFriends"); err != nil {
		return s, err
	}
	if s.Followers, err = o.num("totalFollowers"); err != nil {
		return s, err
	}
	if s.Following, err = o.num("totalFollowing"); err != nil {
		return s, err
	}
	if s.Avatars, err = o.num("totalAvatars"); err != nil {
		return s, err
	}
	if s.AvatarItems, err = o.num("totalAvatarItems"); err != nil {
		return s, err
	}
	if s.Lootboxes, err = o.num("totalLootboxes"); err != nil {
		return s, err
	}
	if _, ok := o["isLiked"]; ok {
		if s.Liked, err = o.flag("isLiked"); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Avatar is a user's current avatar image.
type Avatar struct {
	Name     string
	SmallURL string
	SVGURL   string
}

func parseAvatar(o object) (a Avatar, err error) {
	if a.Name, err = o.str("name"); err != nil {
		return a, err
	}
	if a.SmallURL, err = o.optStr("smallUrl"); err != nil {
		return a, err
	}
	if a.SVGURL, err = o.optStr("svgUrl"); err != nil {
		return a, err
	}
	return a, nil
}

func (a Avatar) String() string { return a.SVGURL }

// AvatarTemplate is an avatar preset a user can pick.
type AvatarTemplate struct {
	Name     string
	URL      string
	SmallURL string
}

func parseAvatarTemplate(o object) (a AvatarTemplate, err error) {
	if a.Name, err = o.str("name"); err != nil {
		return a, err
	}
	if a.URL, err = o.str("originalUrl"); err != nil {
		return a, err
	}
	if a.SmallURL, err = o.optStr("smallUrl"); err != nil {
		return a, err
	}
	return a, nil
}

func (a AvatarTemplate) String() string { return a.URL }

// Avatars bundles a profile's current avatar with the presets available
// to it.
type Avatars struct {
	Available []AvatarTemplate
	SVGURL    string
}

func parseAvatars(o object) (a Avatars, err error) {
	if a.Available, err = objects(o, "available", parseAvatarTemplate); err != nil {
		return a, err
	}
	if a.SVGURL, err = o.optStr("svgUrl"); err != nil {
		return a, err
	}
	return a, nil
}

func (a Avatars) String() string { return a.SVGURL }

// SelfProfile is the profile of the student the session is logged in as.
type SelfProfile struct {
	ID          int
	FirstName   string
	LastName    string
	ParentName  string
	FullName    string
	Username    string
	Phone       string
	Email       string
	IsTeacher   bool
	IsCelebrity bool
	Lang        string
	Branch      Branch
	Ban         Ban
	Settings    Settings
	Avatar      Avatar
	Course      Course
	BirthDate   time.Time
	URL         string
}

func parseSelfProfile(o object) (p SelfProfile, err error) {
	if p.ID, err = o.num("studentId"); err != nil {
		return p, err
	}
	if p.FirstName, err = o.str("firstName"); err != nil {
		return p, err
	}
	if p.LastName, err = o.optStr("lastName"); err != nil {
		return p, err
	}
	if p.ParentName, err = o.optStr("parentName"); err != nil {
		return p, err
	}
	if p.FullName, err = o.str("fullName"); err != nil {
		return p, err
	}
	if p.Username, err = o.optStr("username"); err != nil {
		return p, err
	}
	if p.Phone, err = o.optStr("phone"); err != nil {
		return p, err
	}
	if p.Email, err = o.optStr("email"); err != nil {
		return p, err
	}
	if p.IsTeacher, err = o.flag("isTeacher"); err != nil {
		return p, err
	}
	if p.IsCelebrity, err = o.flag("isCelebrity"); err != nil {
		return p, err
	}
	if p.Lang, err = o.str("lang"); err != nil {
		return p, err
	}
	sub, err := o.object("branch")
	if err != nil {
		return p, err
	}
	if p.Branch, err = parseBranch(sub); err != nil {
		return p, fmt.Errorf("branch: %w", err)
	}
	if sub, err = o.object("ban"); err != nil {
		return p, err
	}
	if p.Ban, err = parseBan(sub); err != nil {
		return p, fmt.Errorf("ban: %w", err)
	}
	if sub, err = o.object("settings"); err != nil {
		return p, err
	}
	if p.Settings, err = parseSettings(sub); err != nil {
		return p, fmt.Errorf("settings: %w", err)
	}
	if sub, err = o.object("avatar"); err != nil {
		return p, err
	}
	if p.Avatar, err = parseAvatar(sub); err != nil {
		return p, fmt.Errorf("avatar: %w", err)
	}
	if sub, err = o.object("course"); err != nil {
		return p, err
	}
	if p.Course, err = parseCourse(sub); err != nil {
		return p, fmt.Errorf("course: %w", err)
	}
	if p.BirthDate, err = o.date("birthDate"); err != nil {
		return p, err
	}
	p.URL = profileURL(p.ID)
	return p, nil
}

func (p SelfProfile) String() string { return p.FullName }

// ProfilePreview is a minimal reference to a user, used wherever one is
// mentioned without being the subject of the query (comment authors,
// friends lists, project authors).
type ProfilePreview struct {
	ID          int
	FirstName   string
	LastName    string
	FullName    string
	IsCelebrity bool
	Avatar      Avatar
	URL         string
}

func parseProfilePreview(o object) (p ProfilePreview, err error) {
	if p.ID, err = o.num("id"); err != nil {
		return p, err
	}
	if p.FirstName, err = o.optStr("firstName"); err != nil {
		return p, err
	}
	if p.LastName, err = o.optStr("lastName"); err != nil {
		return p, err
	}
	if p.FullName, err = o.str("name"); err != nil {
		return p, err
	}
	if p.IsCelebrity, err = o.flag("isCelebrity"); err != nil {
		return p, err
	}
	sub, err := o.object("avatar")
	if err != nil {
		return p, err
	}
	if p.Avatar, err = parseAvatar(sub); err != nil {
		return p, fmt.Errorf("avatar: %w", err)
	}
	p.URL = profileURL(p.ID)
	return p, nil
}

func (p ProfilePreview) String() string { return p.FullName }

// Profile is a fetched third-party user.
type Profile struct {
	ID           int
	FirstName    string
	LastName     string
	FullName     string
	IsCelebrity  bool
	About        string
	ActiveCourse string
	City         string
	FriendStatus FriendStatus
	Stats        UserStats
	Avatars      Avatars
	Friends      []ProfilePreview
	Classmates   []ProfilePreview
	URL          string
	UpdatedAt    *time.Time
}

func parseProfile(o object) (p Profile, err error) {
	if p.ID, err = o.num("id"); err != nil {
		return p, err
	}
	if p.FirstName, err = o.optStr("firstName"); err != nil {
		return p, err
	}
	if p.LastName, err = o.optStr("lastName"); err != nil {
		return p, err
	}
	if p.FullName, err = o.str("fullName"); err != nil {
		return p, err
	}
	if p.IsCelebrity, err = o.flag("isCelebrity"); err != nil {
		return p, err
	}
	if p.About, err = o.optStr("about"); err != nil {
		return p, err
	}
	if p.ActiveCourse, err = o.optStr("activeCourse"); err != nil {
		return p, err
	}
	if p.City, err = o.optStr("city"); err != nil {
		return p, err
	}
	status, err := o.optStr("friendStatus")
	if err != nil {
		return p, err
	}
	p.FriendStatus = FriendStatus(status)
	sub, err := o.object("stats")
	if err != nil {
		return p, err
	}
	if p.Stats, err = parseUserStats(sub); err != nil {
		return p, fmt.Errorf("stats: %w", err)
	}
	if sub, err = o.object("avatars"); err != nil {
		return p, err
	}
	if p.Avatars, err = parseAvatars(sub); err != nil {
		return p, fmt.Errorf("avatars: %w", err)
	}
	if p.Friends, err = objects(o, "friends", parseProfilePreview); err != nil {
		return p, err
	}
	if p.Classmates, err = objects(o, "classmates", parseProfilePreview); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = o.optDateTime("updatedAt"); err != nil {
		return p, err
	}
	p.URL = profileURL(p.ID)
	return p, nil
}

func (p Profile) String() string { return p.FullName }

// PreviewImage is a project's thumbnail in two sizes.
type PreviewImage struct {
	Name     string
	SmallURL string
	URL      string
}

func parsePreviewImage(o object) (i PreviewImage, err error) {
	if i.Name, err = o.optStr("name"); err != nil {
		return i, err
	}
	if i.SmallURL, err = o.optStr("small"); err != nil {
		return i, err
	}
	if i.URL, err = o.str("large"); err != nil {
		return i, err
	}
	return i, nil
}

func (i PreviewImage) String() string { return i.URL }

// Reactions holds per-kind aggregate counters and whether the current
// viewer placed each kind. Kinds missing from the upstream counter
// mapping count as zero.
type Reactions struct {
	LikePlaced bool
	LovePlaced bool
	FirePlaced bool
	Likes      int
	Loves      int
	Fires      int
}

func parseReactions(o object) (r Reactions, err error) {
	mine, err := o.list("my")
	if err != nil {
		return r, err
	}
	for _, v := range mine {
		switch Reaction(fmt.Sprint(v)) {
		case ReactionLike:
			r.LikePlaced = true
		case ReactionLove:
			r.LovePlaced = true
		case ReactionFire:
			r.FirePlaced = true
		}
	}
	counters, err := o.object("counters")
	if err != nil {
		return r, err
	}
	count := func(kind Reaction) (int, error) {
		if _, ok := counters[string(kind)]; !ok {
			return 0, nil
		}
		return counters.num(string(kind))
	}
	if r.Likes, err = count(ReactionLike); err != nil {
		return r, err
	}
	if r.Loves, err = count(ReactionLove); err != nil {
		return r, err
	}
	if r.Fires, err = count(ReactionFire); err != nil {
		return r, err
	}
	return r, nil
}

// Upload is a file attached to a project. URL is absolute, built from the
// platform origin and the upstream's relative path.
type Upload struct {
	ID        int
	Filename  string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func parseUpload(o object) (u Upload, err error) {
	if u.ID, err = o.num("id"); err != nil {
		return u, err
	}
	if u.Filename, err = o.str("filename"); err != nil {
		return u, err
	}
	path, err := o.str("filepath")
	if err != nil {
		return u, err
	}
	u.URL = DefaultBaseURL + path
	if u.CreatedAt, err = o.dateTime("createdAt"); err != nil {
		return u, err
	}
	if u.UpdatedAt, err = o.dateTime("updatedAt"); err != nil {
		return u, err
	}
	return u, nil
}

func (u Upload) String() string { return u.URL }

// RemixedProject is a minimal reference to the original project a remix
// was derived from.
type RemixedProject struct {
	ID         int
	Title      string
	AuthorName string
	URL        string
}

func parseRemixedProject(o object) (r RemixedProject, err error) {
	if r.ID, err = o.num("id"); err != nil {
		return r, err
	}
	if r.Title, err = o.str("title"); err != nil {
		return r, err
	}
	if r.AuthorName, err = o.optStr("studentName"); err != nil {
		return r, err
	}
	r.URL = projectURL(r.ID)
	return r, nil
}

func (r RemixedProject) String() string { return r.Title }

// Project is a community project. Description is "" when the upstream
// sent null or an empty string. Image and OriginalProject are nil when
// the project has no thumbnail or is not a remix.
type Project struct {
	ID              int
	Title           string
	Description     string
	Type            ProjectType
	Availability    []string
	Likes           int
	Views           int
	Remixes         int
	Comments        int
	IsDeleted       bool
	Author          ProfilePreview
	Image           *PreviewImage
	Reactions       Reactions
	RemixEnabled    bool
	OriginalProject *RemixedProject
	Uploads         []Upload
	URL             string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func parseProject(o object) (p Project, err error) {
	if p.ID, err = o.num("id"); err != nil {
		return p, err
	}
	if p.Title, err = o.str("title"); err != nil {
		return p, err
	}
	if p.Description, err = o.optStr("description"); err != nil {
		return p, err
	}
	typ, err := o.str("type")
	if err != nil {
		return p, err
	}
	p.Type = ProjectType(typ)
	modes, err := o.list("sharingMode")
	if err != nil {
		return p, err
	}
	p.Availability = make([]string, 0, len(modes))
	for _, m := range modes {
		mode := fmt.Sprint(m)
		if mode != sharingModePrivate {
			p.Availability = append(p.Availability, mode)
		}
	}
	if p.Likes, err = o.num("likesCount"); err != nil {
		return p, err
	}
	if p.Views, err = o.num("viewsCount"); err != nil {
		return p, err
	}
	if p.Remixes, err = o.num("remixesCount"); err != nil {
		return p, err
	}
	if p.Comments, err = o.num("commentsCount"); err != nil {
		return p, err
	}
	if p.IsDeleted, err = o.flag("isDeleted"); err != nil {
		return p, err
	}
	author, err := o.object("author")
	if err != nil {
		return p, err
	}
	if p.Author, err = parseProfilePreview(author); err != nil {
		return p, fmt.Errorf("author: %w", err)
	}
	images, err := o.object("previewImages")
	if err != nil {
		return p, err
	}
	if images["large"] != nil {
		img, err := parsePreviewImage(images)
		if err != nil {
			return p, fmt.Errorf("previewImages: %w", err)
		}
		p.Image = &img
	}
	reactions, err := o.object("reactions")
	if err != nil {
		return p, err
	}
	if p.Reactions, err = parseReactions(reactions); err != nil {
		return p, fmt.Errorf("reactions: %w", err)
	}
	remix, err := o.object("remix")
	if err != nil {
		return p, err
	}
	if p.RemixEnabled, err = remix.flag("isRemixEnabled"); err != nil {
		return p, err
	}
	if remix["originalProject"] != nil {
		orig, err := remix.object("originalProject")
		if err != nil {
			return p, err
		}
		parsed, err := parseRemixedProject(orig)
		if err != nil {
			return p, fmt.Errorf("remix: %w", err)
		}
		p.OriginalProject = &parsed
	}
	if p.Uploads, err = objects(o, "uploads", parseUpload); err != nil {
		return p, err
	}
	if p.CreatedAt, err = o.dateTime("createdAt"); err != nil {
		return p, err
	}
	if p.UpdatedAt, err = o.dateTime("updatedAt"); err != nil {
		return p, err
	}
	p.URL = projectURL(p.ID)
	return p, nil
}

func (p Project) String() string { return p.Title }

// Comment is a comment on a project. Replies nest under Children, so a
// page of comments forms a forest ordered newest-first at the top level.
type Comment struct {
	ID        int
	Message   string
	Author    ProfilePreview
	Children  []Comment
	CreatedAt time.Time
}

func parseComment(o object) (c Comment, err error) {
	if c.ID, err = o.num("id"); err != nil {
		return c, err
	}
	if c.Message, err = o.str("message"); err != nil {
		return c, err
	}
	author, err := o.object("author")
	if err != nil {
		return c, err
	}
	if c.Author, err = parseProfilePreview(author); err != nil {
		return c, fmt.Errorf("author: %w", err)
	}
	if c.Children, err = objects(o, "children", parseComment); err != nil {
		return c, err
	}
	if c.CreatedAt, err = o.dateTime("createdAt"); err != nil {
		return c, err
	}
	return c, nil
}

func (c Comment) String() string { return c.Message }
