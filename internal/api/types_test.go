package api_test

import (
	"testing"

	"genvid/internal/api"
)

func TestAnyPending(t *testing.T) {
	tests := []struct {
		name     string
		statuses []api.ProjectStatus
		want     bool
	}{
		{"empty", nil, false},
		{"all terminal", []api.ProjectStatus{api.StatusCompleted, api.StatusFailed, api.StatusCanceled, api.StatusDraft}, false},
		{"queued", []api.ProjectStatus{api.StatusCompleted, api.StatusQueued}, true},
		{"processing", []api.ProjectStatus{api.StatusProcessing}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			projects := make([]api.Project, len(tc.statuses))
			for i, s := range tc.statuses {
				projects[i] = api.Project{ID: "p", Status: s}
			}
			if got := api.AnyPending(projects); got != tc.want {
				t.Fatalf("AnyPending = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAvatarFilterApply(t *testing.T) {
	avatars := []api.Avatar{
		{ID: "1", Name: "emma", Gender: "female", Style: "casual"},
		{ID: "2", Name: "james", Gender: "male", Style: "professional"},
		{ID: "3", Name: "li", Gender: "female", Style: "professional"},
	}

	tests := []struct {
		name   string
		filter api.AvatarFilter
		want   []string
	}{
		{"no filter", api.AvatarFilter{}, []string{"1", "2", "3"}},
		{"all keyword", api.AvatarFilter{Gender: "all", Style: "all"}, []string{"1", "2", "3"}},
		{"gender only", api.AvatarFilter{Gender: "female"}, []string{"1", "3"}},
		{"style only", api.AvatarFilter{Style: "professional"}, []string{"2", "3"}},
		{"both", api.AvatarFilter{Gender: "female", Style: "professional"}, []string{"3"}},
		{"no match", api.AvatarFilter{Gender: "other"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.filter.Apply(avatars)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d avatars, want %d", len(got), len(tc.want))
			}
			for i, avatar := range got {
				if avatar.ID != tc.want[i] {
					t.Fatalf("avatar %d = %s, want %s", i, avatar.ID, tc.want[i])
				}
			}
		})
	}
}

func TestUserDisplayName(t *testing.T) {
	user := &api.User{Email: "a@b.com"}
	if got := user.DisplayName(); got != "a@b.com" {
		t.Fatalf("fallback display name = %q", got)
	}
	user.FullName = "A B"
	if got := user.DisplayName(); got != "A B" {
		t.Fatalf("display name = %q", got)
	}
}
