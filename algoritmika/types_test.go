package algoritmika

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustObject(t *testing.T, raw string) object {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return object(m)
}

const projectFixture = `{
	"id": 101,
	"title": "Maze Runner",
	"description": "A maze game",
	"type": "scratch",
	"sharingMode": ["private", "link"],
	"likesCount": 3,
	"viewsCount": 25,
	"remixesCount": 1,
	"commentsCount": 2,
	"isDeleted": 0,
	"author": {
		"id": 7,
		"firstName": "Aset",
		"lastName": "K",
		"name": "Aset K.",
		"isCelebrity": false,
		"avatar": {"name": "fox", "smallUrl": "/fox-s.png", "svgUrl": "/fox.svg"}
	},
	"previewImages": {"name": "preview", "small": "/p-small.png", "large": "/p-large.png"},
	"reactions": {"my": ["like"], "counters": {"like": 3, "fire": 1}},
	"remix": {"isRemixEnabled": 1, "originalProject": null},
	"uploads": [
		{
			"id": 55,
			"filename": "game.sb3",
			"filepath": "/uploads/game.sb3",
			"createdAt": "2023-04-01T12:30:00.000Z",
			"updatedAt": "2023-04-01T12:31:00.000Z"
		}
	],
	"createdAt": "2023-04-01T12:30:00.000Z",
	"updatedAt": "2023-04-02T08:00:00.000Z"
}`

func TestParseProject(t *testing.T) {
	project, err := parseProject(mustObject(t, projectFixture))
	require.NoError(t, err)

	assert.Equal(t, 101, project.ID)
	assert.Equal(t, "Maze Runner", project.Title)
	assert.Equal(t, "A maze game", project.Description)
	assert.Equal(t, ProjectTypeScratch, project.Type)
	assert.False(t, project.IsDeleted)
	assert.Equal(t, 3, project.Likes)
	assert.Equal(t, 25, project.Views)
	assert.Equal(t, 1, project.Remixes)
	assert.Equal(t, 2, project.Comments)
	assert.Equal(t, "Aset K.", project.Author.FullName)
	assert.Equal(t, "https://learn.algoritmika.org/community?projectId=101", project.URL)
	assert.Equal(t, "Maze Runner", project.String())

	require.NotNil(t, project.Image)
	assert.Equal(t, "/p-large.png", project.Image.URL)

	assert.True(t, project.RemixEnabled)
	assert.Nil(t, project.OriginalProject)

	require.Len(t, project.Uploads, 1)
	assert.Equal(t, 55, project.Uploads[0].ID)
	assert.Equal(t, "https://learn.algoritmika.org/uploads/game.sb3", project.Uploads[0].URL)

	assert.Equal(t, time.Date(2023, 4, 1, 12, 30, 0, 0, time.UTC), project.CreatedAt)
	assert.Equal(t, time.Date(2023, 4, 2, 8, 0, 0, 0, time.UTC), project.UpdatedAt)
}

func TestParseProjectAvailabilityStripsPrivate(t *testing.T) {
	project, err := parseProject(mustObject(t, projectFixture))
	require.NoError(t, err)
	assert.Equal(t, []string{"link"}, project.Availability)
}

func TestParseProjectDescription(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", `""`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := mustObject(t, projectFixture)
			var v any
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			o["description"] = v

			project, err := parseProject(o)
			require.NoError(t, err)
			assert.Empty(t, project.Description)
		})
	}
}

func TestParseProjectRemix(t *testing.T) {
	o := mustObject(t, projectFixture)
	o["remix"] = map[string]any{
		"isRemixEnabled": float64(1),
		"originalProject": map[string]any{
			"id":          float64(42),
			"title":       "Original Maze",
			"studentName": "Dana",
		},
	}

	project, err := parseProject(o)
	require.NoError(t, err)
	require.NotNil(t, project.OriginalProject)
	assert.Equal(t, 42, project.OriginalProject.ID)
	assert.Equal(t, "Original Maze", project.OriginalProject.Title)
	assert.Equal(t, "https://learn.algoritmika.org/community?projectId=42", project.OriginalProject.URL)
}

func TestParseProjectNoPreviewImage(t *testing.T) {
	o := mustObject(t, projectFixture)
	o["previewImages"] = map[string]any{"name": nil, "small": nil, "large": nil}

	project, err := parseProject(o)
	require.NoError(t, err)
	assert.Nil(t, project.Image)
}

func TestParseProjectMissingRequiredField(t *testing.T) {
	o := mustObject(t, projectFixture)
	delete(o, "title")

	_, err := parseProject(o)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "title", schemaErr.Field)
}

func TestParseReactions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Reactions
	}{
		{
			name: "missing kinds default to zero",
			raw:  `{"my": [], "counters": {"like": 3}}`,
			want: Reactions{Likes: 3},
		},
		{
			name: "all kinds present",
			raw:  `{"my": ["love", "fire"], "counters": {"like": 1, "love": 2, "fire": 4}}`,
			want: Reactions{LovePlaced: true, FirePlaced: true, Likes: 1, Loves: 2, Fires: 4},
		},
		{
			name: "empty counters",
			raw:  `{"my": [], "counters": {}}`,
			want: Reactions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReactions(mustObject(t, tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "fractional and zone suffix ignored",
			input: "2023-04-01T12:30:00.000Z",
			want:  time.Date(2023, 4, 1, 12, 30, 0, 0, time.UTC),
		},
		{
			name:  "bare timestamp",
			input: "2021-12-31T23:59:59",
			want:  time.Date(2021, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDateTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBan(t *testing.T) {
	t.Run("active with expiry", func(t *testing.T) {
		ban, err := parseBan(mustObject(t, `{
			"active": true,
			"reason": "spam",
			"expiresAt": "2024-01-15T10:00:00.000Z"
		}`))
		require.NoError(t, err)
		assert.True(t, ban.IsBanned)
		assert.Equal(t, "spam", ban.Reason)
		require.NotNil(t, ban.ExpiresAt)
		assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC), *ban.ExpiresAt)
	})

	t.Run("not banned", func(t *testing.T) {
		ban, err := parseBan(mustObject(t, `{"active": false, "reason": null, "expiresAt": null}`))
		require.NoError(t, err)
		assert.False(t, ban.IsBanned)
		assert.Nil(t, ban.ExpiresAt)
	})
}

func TestParseSettings(t *testing.T) {
	settings, err := parseSettings(mustObject(t, `{
		"platformUploadFileExtensions": "png jpg sb3",
		"vscodeFileNamePattern": "task-{id}",
		"prosveshenieToken": "tok-1"
	}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"png", "jpg", "sb3"}, settings.AllowedFileExtensions)
	assert.Equal(t, "task-{id}", settings.VSCodeFileNamePattern)
	assert.Equal(t, "tok-1", settings.ProsveshenieToken)
}

const selfProfileFixture = `{
	"studentId": 9001,
	"firstName": "Alikhan",
	"lastName": "S",
	"parentName": "",
	"fullName": "Alikhan S.",
	"username": "alikhan",
	"phone": "+7000",
	"email": "a@example.org",
	"isTeacher": false,
	"isCelebrity": false,
	"lang": "ru",
	"birthDate": "2010-06-15",
	"branch": {
		"id": 3,
		"brandName": "Algoritmika",
		"title": "Almaty Central",
		"code": "ala-1",
		"phone": "+7100",
		"siteUrl": "https://example.org"
	},
	"ban": {"active": false, "reason": null, "expiresAt": null},
	"settings": {
		"platformUploadFileExtensions": "png sb3",
		"vscodeFileNamePattern": "task-{id}",
		"prosveshenieToken": "tok"
	},
	"avatar": {"name": "fox", "smallUrl": "/fox-s.png", "svgUrl": "/fox.svg"},
	"course": {
		"id": 12,
		"name": "python-start",
		"displayName": "Python Start",
		"description": "intro course",
		"gamification": {"isEnabled": 1, "regularLevelPoints": 100, "bonusLevelPoints": 50}
	}
}`

func TestParseSelfProfile(t *testing.T) {
	profile, err := parseSelfProfile(mustObject(t, selfProfileFixture))
	require.NoError(t, err)

	assert.Equal(t, 9001, profile.ID)
	assert.Equal(t, "Alikhan S.", profile.FullName)
	assert.Equal(t, "Alikhan S.", profile.String())
	assert.Equal(t, time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC), profile.BirthDate)
	assert.Equal(t, "Almaty Central", profile.Branch.Title)
	assert.Equal(t, "Python Start", profile.Course.String())
	assert.True(t, profile.Course.GamificationEnabled)
	assert.Equal(t, 100, profile.Course.GamificationLevelPoints)
	assert.Equal(t, "https://learn.algoritmika.org/student-profile?profileId=9001", profile.URL)
}

func TestParseSelfProfileMissingNestedField(t *testing.T) {
	o := mustObject(t, selfProfileFixture)
	branch := o["branch"].(map[string]any)
	delete(branch, "brandName")

	_, err := parseSelfProfile(o)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "brandName", schemaErr.Field)
}

const profileFixture = `{
	"id": 7,
	"firstName": "Dana",
	"lastName": "T",
	"fullName": "Dana T.",
	"isCelebrity": true,
	"about": "I make games",
	"activeCourse": "Scratch Pro",
	"city": "Astana",
	"friendStatus": "follow",
	"updatedAt": null,
	"stats": {
		"totalClassmates": 10,
		"totalProjectCount": 4,
		"totalProjectViews": 120,
		"totalProjectLikes": 30,
		"totalReactions": 35,
		"totalFriends": 8,
		"totalFollowers": 15,
		"totalFollowing": 9,
		"totalAvatars": 2,
		"totalAvatarItems": 5,
		"totalLootboxes": 1
	},
	"avatars": {
		"available": [
			{"name": "cat", "originalUrl": "/cat.png", "smallUrl": "/cat-s.png"}
		],
		"svgUrl": "/cat.svg"
	},
	"friends": [
		{
			"id": 8,
			"firstName": "Ergali",
			"lastName": "M",
			"name": "Ergali M.",
			"isCelebrity": false,
			"avatar": {"name": "owl", "smallUrl": "/owl-s.png", "svgUrl": "/owl.svg"}
		}
	],
	"classmates": []
}`

func TestParseProfile(t *testing.T) {
	profile, err := parseProfile(mustObject(t, profileFixture))
	require.NoError(t, err)

	assert.Equal(t, 7, profile.ID)
	assert.Equal(t, FriendStatusFollow, profile.FriendStatus)
	assert.Equal(t, 10, profile.Stats.Classmates)
	assert.Equal(t, 35, profile.Stats.Reactions)
	assert.False(t, profile.Stats.Liked)
	assert.Nil(t, profile.UpdatedAt)

	require.Len(t, profile.Avatars.Available, 1)
	assert.Equal(t, "/cat.png", profile.Avatars.Available[0].URL)

	require.Len(t, profile.Friends, 1)
	assert.Equal(t, "Ergali M.", profile.Friends[0].FullName)

	// empty raw list stays an empty owned slice, not nil
	require.NotNil(t, profile.Classmates)
	assert.Empty(t, profile.Classmates)
}

func TestParseProfileFriendStatusNull(t *testing.T) {
	o := mustObject(t, profileFixture)
	o["friendStatus"] = nil

	profile, err := parseProfile(o)
	require.NoError(t, err)
	assert.Equal(t, FriendStatusNone, profile.FriendStatus)
}

const commentFixture = `{
	"id": 301,
	"message": "nice game!",
	"createdAt": "2023-05-02T09:15:00.000000Z",
	"author": {
		"id": 8,
		"firstName": "Ergali",
		"lastName": "M",
		"name": "Ergali M.",
		"isCelebrity": false,
		"avatar": {"name": "owl", "smallUrl": "/owl-s.png", "svgUrl": "/owl.svg"}
	},
	"children": [
		{
			"id": 302,
			"message": "thanks",
			"createdAt": "2023-05-02T10:00:00.000000Z",
			"author": {
				"id": 7,
				"firstName": "Dana",
				"lastName": "T",
				"name": "Dana T.",
				"isCelebrity": false,
				"avatar": {"name": "cat", "smallUrl": "/cat-s.png", "svgUrl": "/cat.svg"}
			},
			"children": []
		}
	]
}`

func TestParseCommentTree(t *testing.T) {
	comment, err := parseComment(mustObject(t, commentFixture))
	require.NoError(t, err)

	assert.Equal(t, 301, comment.ID)
	assert.Equal(t, "nice game!", comment.Message)
	assert.Equal(t, "nice game!", comment.String())
	assert.Equal(t, "Ergali M.", comment.Author.FullName)
	assert.Equal(t, time.Date(2023, 5, 2, 9, 15, 0, 0, time.UTC), comment.CreatedAt)

	require.Len(t, comment.Children, 1)
	reply := comment.Children[0]
	assert.Equal(t, 302, reply.ID)
	assert.Equal(t, "thanks", reply.Message)
	assert.Empty(t, reply.Children)
}

func TestReactionValid(t *testing.T) {
	assert.True(t, ReactionLike.Valid())
	assert.True(t, ReactionLove.Valid())
	assert.True(t, ReactionFire.Valid())
	assert.False(t, Reaction("meh").Valid())
}
