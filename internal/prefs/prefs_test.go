package prefs_test

import (
	"context"
	"errors"
	"testing"

	"genvid/internal/prefs"
	"genvid/internal/state"
)

func TestDefaultLanguageIsChinese(t *testing.T) {
	store := prefs.New(nil)
	if got := store.Language(); got != "zh" {
		t.Fatalf("default language = %q", got)
	}
}

func TestSetLanguageValidates(t *testing.T) {
	ctx := context.Background()
	store := prefs.New(nil)

	if err := store.SetLanguage(ctx, "en"); err != nil {
		t.Fatalf("set en: %v", err)
	}
	if got := store.Language(); got != "en" {
		t.Fatalf("language = %q", got)
	}

	if err := store.SetLanguage(ctx, "fr"); !errors.Is(err, prefs.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	if got := store.Language(); got != "en" {
		t.Fatalf("rejected set must not change language, got %q", got)
	}
}

func TestNormalizeCollapsesRegions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en-US", "en"},
		{"zh-CN", "zh"},
		{"EN", "en"},
	}
	for _, tc := range tests {
		got, err := prefs.Normalize(tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := prefs.Normalize("not-a-language-@@"); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestPreferenceSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := state.Open(dir)
	if err != nil {
		t.Fatalf("open state: %v", err)
	}
	store := prefs.New(st)
	if err := store.SetLanguage(ctx, "en"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st2, err := state.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()

	reopened := prefs.New(st2)
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := reopened.Language(); got != "en" {
		t.Fatalf("language after reopen = %q", got)
	}
}
