package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adilzhn/algoclient/algoritmika"
)

func sampleProject() algoritmika.Project {
	return algoritmika.Project{
		ID:           101,
		Title:        "Maze Runner",
		Description:  "A maze game",
		Type:         algoritmika.ProjectTypeScratch,
		Availability: []string{"link"},
		Likes:        12,
		Views:        230,
		Remixes:      1,
		Comments:     4,
		Author: algoritmika.ProfilePreview{
			ID:       7,
			FullName: "Dana T.",
		},
		RemixEnabled: true,
		CreatedAt:    time.Now().AddDate(0, -2, 0),
		UpdatedAt:    time.Now().AddDate(0, 0, -3),
	}
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{
			name:       "valid expression",
			expression: `Likes > 10 && Type == "scratch"`,
		},
		{
			name:       "valid helper call",
			expression: `contains(Title, "maze")`,
		},
		{
			name:       "empty expression",
			expression: "   ",
			wantErr:    true,
		},
		{
			name:       "malformed expression",
			expression: "Likes >",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMatch(t *testing.T) {
	project := sampleProject()

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{"likes threshold", `Likes > 10`, true},
		{"likes threshold miss", `Likes > 100`, false},
		{"type check", `Type == "scratch"`, true},
		{"isType helper", `isType("Scratch")`, true},
		{"title contains", `contains(Title, "maze")`, true},
		{"author helper", `byAuthor("dana t.")`, true},
		{"availability helper", `hasAvailability("link")`, true},
		{"availability miss", `hasAvailability("private")`, false},
		{"has description", `hasDescription()`, true},
		{"not a remix", `isRemix()`, false},
		{"date helper", `CreatedAt < daysAgo(30)`, true},
		{"combined", `Likes > 10 && Views > 100 && !IsDeleted`, true},
		{"non-bool result is no match", `Title`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(project))
		})
	}
}

func TestCreateFilter(t *testing.T) {
	match, err := CreateFilter(`Comments >= 4`)
	require.NoError(t, err)
	assert.True(t, match(sampleProject()))

	_, err = CreateFilter("")
	require.Error(t, err)
}
