package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"genvid/internal/api"
	"genvid/internal/logging"
	"genvid/internal/session"
	"genvid/internal/state"
)

func openState(t *testing.T) *state.Store {
	t.Helper()
	st, err := state.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestAuthenticatedTracksTokenAndUserPresence(t *testing.T) {
	ctx := context.Background()
	store := session.New(nil, logging.NewNop())
	user := &api.User{ID: "u1", Email: "a@b.com"}

	steps := []struct {
		name string
		run  func()
		want bool
	}{
		{"initial", func() {}, false},
		{"tokens only", func() { _ = store.SetTokens(ctx, "t1", "r1") }, false},
		{"user added", func() { store.SetUser(user) }, true},
		{"tokens cleared", func() { _ = store.SetTokens(ctx, "", "") }, false},
		{"tokens restored", func() { _ = store.SetTokens(ctx, "t2", "r2") }, true},
		{"user cleared", func() { store.SetUser(nil) }, false},
	}
	for _, step := range steps {
		step.run()
		if got := store.IsAuthenticated(); got != step.want {
			t.Fatalf("%s: IsAuthenticated = %v, want %v", step.name, got, step.want)
		}
	}
}

func TestSetAuthMarksAuthenticatedUnconditionally(t *testing.T) {
	store := session.New(nil, logging.NewNop())
	if err := store.SetAuth(context.Background(), nil, "t", "r"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatal("SetAuth must mark authenticated even with nil user")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	store := session.New(openState(t), logging.NewNop())
	if err := store.SetAuth(ctx, &api.User{ID: "u1"}, "t", "r"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("still authenticated after logout")
	}
	if store.User() != nil {
		t.Fatal("user not cleared")
	}
	if store.Token() != "" || store.RefreshToken() != "" {
		t.Fatal("tokens not cleared")
	}
	if !store.HasHydrated() {
		t.Fatal("logout must leave the store hydrated")
	}
	if store.Phase() != session.PhaseHydratedAnonymous {
		t.Fatalf("unexpected phase: %s", store.Phase())
	}
}

func TestHydrateLoadsPersistedTokensWithoutUser(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := state.Open(dir)
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	first := session.New(st, logging.NewNop())
	if err := first.SetAuth(ctx, &api.User{ID: "u1"}, "tok", "ref"); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close state: %v", err)
	}

	st2, err := state.Open(dir)
	if err != nil {
		t.Fatalf("reopen state: %v", err)
	}
	defer st2.Close()

	second := session.New(st2, logging.NewNop())
	if second.Phase() != session.PhaseUninitialized {
		t.Fatalf("unexpected initial phase: %s", second.Phase())
	}
	if err := second.Hydrate(ctx); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if !second.HasHydrated() {
		t.Fatal("expected hydrated")
	}
	if second.Token() != "tok" || second.RefreshToken() != "ref" {
		t.Fatalf("tokens not restored: %q %q", second.Token(), second.RefreshToken())
	}
	// Only tokens persist; the profile is gone but the session still counts
	// as authenticated until a profile fetch resolves it.
	if second.User() != nil {
		t.Fatal("user should not be persisted")
	}
	if !second.IsAuthenticated() {
		t.Fatal("token-only hydrated session should be authenticated")
	}
}

func TestHydrateWithoutPersistedBlobIsAnonymous(t *testing.T) {
	store := session.New(openState(t), logging.NewNop())
	if err := store.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatal("fresh store should be anonymous")
	}
	if store.Phase() != session.PhaseHydratedAnonymous {
		t.Fatalf("unexpected phase: %s", store.Phase())
	}
}

func TestHydrateFiresOnce(t *testing.T) {
	ctx := context.Background()
	st := openState(t)
	store := session.New(st, logging.NewNop())
	if err := store.Hydrate(ctx); err != nil {
		t.Fatalf("first hydrate: %v", err)
	}

	// A token written after hydration must not be re-loaded by a second call.
	if err := store.SetTokens(ctx, "newer", "newer-r"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	store.SetUser(&api.User{ID: "u1"})
	if err := store.Hydrate(ctx); err != nil {
		t.Fatalf("second hydrate: %v", err)
	}
	if store.Token() != "newer" {
		t.Fatalf("second hydrate replaced state: %q", store.Token())
	}
	if store.User() == nil {
		t.Fatal("second hydrate dropped user")
	}
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": expiry.Unix(),
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenExpiry(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	got, err := session.TokenExpiry(signedToken(t, expiry))
	if err != nil {
		t.Fatalf("TokenExpiry: %v", err)
	}
	if !got.Equal(expiry) {
		t.Fatalf("expiry = %v, want %v", got, expiry)
	}

	if _, err := session.TokenExpiry("opaque-token"); err == nil {
		t.Fatal("expected error for non-JWT token")
	}
}

func TestNeedsRefresh(t *testing.T) {
	ctx := context.Background()
	store := session.New(nil, logging.NewNop())

	if store.NeedsRefresh(time.Minute) {
		t.Fatal("empty session never needs refresh")
	}

	_ = store.SetTokens(ctx, signedToken(t, time.Now().Add(2*time.Hour)), "r")
	if store.NeedsRefresh(time.Minute) {
		t.Fatal("fresh token should not need refresh")
	}

	_ = store.SetTokens(ctx, signedToken(t, time.Now().Add(30*time.Second)), "r")
	if !store.NeedsRefresh(time.Minute) {
		t.Fatal("near-expiry token should need refresh")
	}

	// Opaque tokens rely on the backend's 401 instead.
	_ = store.SetTokens(ctx, "opaque", "r")
	if store.NeedsRefresh(time.Minute) {
		t.Fatal("opaque token must not trigger proactive refresh")
	}
}
