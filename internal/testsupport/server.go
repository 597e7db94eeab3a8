package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"genvid/internal/api"
)

// Backend is an in-memory stand-in for the Genvid API, wrapping the uniform
// response envelope around canned data. Tests mutate its fields directly
// between requests; a zero token list rejects every authenticated call.
type Backend struct {
	mu       sync.Mutex
	user     api.User
	projects []api.Project
	avatars  []api.Avatar
	token    string
	requests map[string]int
}

// StartBackend launches an httptest server around a Backend seeded with one
// user and registers cleanup.
func StartBackend(t testing.TB) (*Backend, *httptest.Server) {
	t.Helper()

	b := &Backend{
		user: api.User{
			ID:               "u1",
			Email:            "test@example.com",
			FullName:         "Test User",
			CreditsRemaining: 3,
			SubscriptionTier: api.TierFree,
		},
		avatars: []api.Avatar{
			{ID: "a1", Name: "Emma", Gender: "female", Style: "casual"},
			{ID: "a2", Name: "Liam", Gender: "male", Style: "professional"},
		},
		token:    "test-token",
		requests: map[string]int{},
	}
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)
	return b, server
}

// Token returns the access token the backend accepts.
func (b *Backend) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

// Requests returns how many times a "METHOD /path" route was hit.
func (b *Backend) Requests(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[route]
}

// SetProjects replaces the project list.
func (b *Backend) SetProjects(projects []api.Project) {
	b.mu.Lock()
	b.projects = projects
	b.mu.Unlock()
}

// SetUser replaces the profile returned by /api/user/profile.
func (b *Backend) SetUser(user api.User) {
	b.mu.Lock()
	b.user = user
	b.mu.Unlock()
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests[r.Method+" "+r.URL.Path]++

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/api/auth/register",
		r.Method == http.MethodPost && path == "/api/auth/login":
		b.ok(w, http.StatusOK, map[string]any{
			"access_token":  b.token,
			"refresh_token": "refresh-" + b.token,
			"token_type":    "Bearer",
			"expires_in":    3600,
			"user":          b.user,
		})
	case r.Method == http.MethodPost && path == "/api/auth/refresh":
		b.ok(w, http.StatusOK, map[string]any{
			"access_token":  b.token,
			"refresh_token": "refresh-" + b.token,
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	default:
		if !b.authorized(r) {
			b.fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token")
			return
		}
		b.serveAuthed(w, r)
	}
}

func (b *Backend) serveAuthed(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && path == "/api/user/profile":
		b.ok(w, http.StatusOK, b.user)
	case r.Method == http.MethodPatch && path == "/api/user/profile":
		var update struct {
			FullName          *string `json:"full_name"`
			CompanyName       *string `json:"company_name"`
			PreferredLanguage *string `json:"preferred_language"`
		}
		_ = json.NewDecoder(r.Body).Decode(&update)
		if update.FullName != nil {
			b.user.FullName = *update.FullName
		}
		if update.CompanyName != nil {
			b.user.CompanyName = *update.CompanyName
		}
		if update.PreferredLanguage != nil {
			b.user.PreferredLanguage = *update.PreferredLanguage
		}
		b.ok(w, http.StatusOK, b.user)
	case r.Method == http.MethodGet && path == "/api/projects":
		page, limit := paging(r)
		total := len(b.projects)
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		totalPages := (total + limit - 1) / limit
		b.okWithMeta(w, b.projects[start:end], &api.Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages})
	case r.Method == http.MethodPost && path == "/api/projects":
		var req api.CreateProjectRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		project := api.Project{
			ID:          fmt.Sprintf("p%d", len(b.projects)+1),
			ProductName: req.ProductName,
			Status:      api.StatusDraft,
		}
		b.projects = append(b.projects, project)
		b.ok(w, http.StatusCreated, project)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/projects/"):
		id := strings.TrimPrefix(path, "/api/projects/")
		if project, i := b.find(id); i >= 0 {
			b.ok(w, http.StatusOK, project)
		} else {
			b.fail(w, http.StatusNotFound, "NOT_FOUND", "project not found")
		}
	case r.Method == http.MethodDelete && strings.HasPrefix(path, "/api/projects/"):
		id := strings.TrimPrefix(path, "/api/projects/")
		if _, i := b.find(id); i >= 0 {
			b.projects = append(b.projects[:i], b.projects[i+1:]...)
			b.ok(w, http.StatusOK, nil)
		} else {
			b.fail(w, http.StatusNotFound, "NOT_FOUND", "project not found")
		}
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/generate"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/api/projects/"), "/generate")
		if project, i := b.find(id); i >= 0 {
			project.Status = api.StatusQueued
			b.projects[i] = project
			b.ok(w, http.StatusOK, project)
		} else {
			b.fail(w, http.StatusNotFound, "NOT_FOUND", "project not found")
		}
	case r.Method == http.MethodGet && path == "/api/avatars":
		b.ok(w, http.StatusOK, b.avatars)
	case r.Method == http.MethodPost && path == "/api/upload":
		b.ok(w, http.StatusOK, map[string]string{"url": "https://cdn.test/upload.png"})
	case r.Method == http.MethodPost && path == "/api/payments/checkout":
		b.ok(w, http.StatusOK, map[string]string{"session_url": "https://pay.test/session"})
	default:
		b.fail(w, http.StatusNotFound, "NOT_FOUND", "no route for "+path)
	}
}

func (b *Backend) find(id string) (api.Project, int) {
	for i, p := range b.projects {
		if p.ID == id {
			return p, i
		}
	}
	return api.Project{}, -1
}

func (b *Backend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+b.token
}

func (b *Backend) ok(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	payload := map[string]any{"success": true}
	if data != nil {
		payload["data"] = data
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func (b *Backend) okWithMeta(w http.ResponseWriter, data any, meta *api.Meta) {
	w.Header().Set("Content-Type", "application/json")
	payload := map[string]any{"success": true}
	if data != nil {
		payload["data"] = data
	}
	if meta != nil {
		payload["meta"] = meta
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func (b *Backend) fail(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	})
}

func paging(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
