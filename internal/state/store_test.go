package state_test

import (
	"context"
	"errors"
	"testing"

	"genvid/internal/state"
)

func openStore(t *testing.T) *state.Store {
	t.Helper()
	store, err := state.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "genvid-language", []byte(`{"language":"en"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	blob, err := store.Get(ctx, "genvid-language")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(blob) != `{"language":"en"}` {
		t.Fatalf("unexpected blob: %s", blob)
	}
}

func TestPutReplacesExistingValue(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "k", []byte(`1`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "k", []byte(`2`)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	blob, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(blob) != "2" {
		t.Fatalf("expected replaced value, got %s", blob)
	}
}

func TestGetMissingKeyReturnsErrNotFound(t *testing.T) {
	store := openStore(t)

	_, err := store.Get(context.Background(), "absent")
	if !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Delete(ctx, "absent"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := store.Put(ctx, "k", []byte(`x`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, state.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSecondOpenOnSameDirIsLocked(t *testing.T) {
	dir := t.TempDir()
	first, err := state.Open(dir)
	if err != nil {
		t.Fatalf("open first: %v", err)
	}
	defer first.Close()

	if _, err := state.Open(dir); !errors.Is(err, state.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := state.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Put(ctx, "genvid-auth", []byte(`{"token":"t"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := state.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	blob, err := reopened.Get(ctx, "genvid-auth")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if string(blob) != `{"token":"t"}` {
		t.Fatalf("unexpected blob after reopen: %s", blob)
	}
}
