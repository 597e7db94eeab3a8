package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"genvid/internal/api"
	"genvid/internal/logging"
	"genvid/internal/state"
)

// authKey is the blob key holding the persisted session. Only tokens are
// persisted; the user profile is re-fetched after hydration, so a freshly
// hydrated store can be authenticated with a nil user.
const authKey = "genvid-auth"

type persistedAuth struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Phase describes where the store is in its hydration lifecycle.
type Phase string

const (
	PhaseUninitialized         Phase = "uninitialized"
	PhaseHydrating             Phase = "hydrating"
	PhaseHydratedAuthenticated Phase = "hydrated-authenticated"
	PhaseHydratedAnonymous     Phase = "hydrated-anonymous"
)

// Store holds the current user, tokens, and hydration state. Tokens survive
// process restarts through the state store; everything else is in-memory.
// A nil state store yields a purely in-memory session, used by tests.
type Store struct {
	mu        sync.RWMutex
	state     *state.Store
	logger    *slog.Logger
	user      *api.User
	token     string
	refresh   string
	auth      bool
	hydrated  bool
	hydrating bool
}

// New builds a session store over the given state store.
func New(st *state.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{
		state:  st,
		logger: logger.With(logging.String(logging.FieldComponent, "session")),
	}
}

// Hydrate loads persisted tokens into memory and marks the store hydrated.
// It fires exactly once; later calls are no-ops. A missing blob is the normal
// anonymous case, not an error.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.hydrated || s.hydrating {
		s.mu.Unlock()
		return nil
	}
	s.hydrating = true
	st := s.state
	s.mu.Unlock()

	var persisted persistedAuth
	if st != nil {
		blob, err := st.Get(ctx, authKey)
		switch {
		case errors.Is(err, state.ErrNotFound):
			// first run or logged out
		case err != nil:
			s.mu.Lock()
			s.hydrating = false
			s.mu.Unlock()
			return fmt.Errorf("hydrate session: %w", err)
		default:
			if err := json.Unmarshal(blob, &persisted); err != nil {
				s.logger.Warn("discarding corrupt session blob", logging.Error(err))
			}
		}
	}

	s.mu.Lock()
	s.token = persisted.Token
	s.refresh = persisted.RefreshToken
	s.hydrating = false
	s.hydrated = true
	// Only tokens are persisted, so a returning user is authenticated with a
	// nil profile until the next profile fetch calls SetUser.
	s.auth = s.token != ""
	s.mu.Unlock()
	return nil
}

// SetHasHydrated overrides the hydration flag. Consumers normally rely on
// Hydrate; this exists for flows that construct sessions from fresh logins
// where no load from disk is wanted.
func (s *Store) SetHasHydrated(hydrated bool) {
	s.mu.Lock()
	s.hydrated = hydrated
	s.mu.Unlock()
}

// SetAuth installs a complete session and unconditionally marks it
// authenticated. Used after login and register.
func (s *Store) SetAuth(ctx context.Context, user *api.User, token, refreshToken string) error {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.refresh = refreshToken
	s.auth = true
	s.mu.Unlock()
	return s.persist(ctx)
}

// SetUser replaces the in-memory user and recomputes the authenticated flag.
// The user is deliberately not persisted.
func (s *Store) SetUser(user *api.User) {
	s.mu.Lock()
	s.user = user
	s.recomputeLocked()
	s.mu.Unlock()
}

// SetTokens replaces the token pair, recomputes the authenticated flag, and
// persists the new pair.
func (s *Store) SetTokens(ctx context.Context, token, refreshToken string) error {
	s.mu.Lock()
	s.token = token
	s.refresh = refreshToken
	s.recomputeLocked()
	s.mu.Unlock()
	return s.persist(ctx)
}

// Logout clears all session fields and removes the persisted blob. The store
// lands in the hydrated-anonymous phase; it never returns to hydrating.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.refresh = ""
	s.auth = false
	s.hydrated = true
	st := s.state
	s.mu.Unlock()

	if st == nil {
		return nil
	}
	if err := st.Delete(ctx, authKey); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// User returns the in-memory profile, which may be nil right after hydration
// even when authenticated.
func (s *Store) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Token returns the current access token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// RefreshToken returns the current refresh token.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// IsAuthenticated reports the current authenticated flag.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.auth
}

// HasHydrated reports whether persisted state has been loaded. Route guards
// must not treat an unauthenticated store as final before this is true.
func (s *Store) HasHydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Phase derives the lifecycle phase from the flags.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.hydrating:
		return PhaseHydrating
	case !s.hydrated:
		return PhaseUninitialized
	case s.auth:
		return PhaseHydratedAuthenticated
	default:
		return PhaseHydratedAnonymous
	}
}

// recomputeLocked derives authenticated from presence of both a user and a
// token.
func (s *Store) recomputeLocked() {
	s.auth = s.user != nil && s.token != ""
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.RLock()
	st := s.state
	blob, err := json.Marshal(persistedAuth{Token: s.token, RefreshToken: s.refresh})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if st == nil {
		return nil
	}
	// Persistence is best-effort; a write failure must not take down the
	// in-memory session.
	if err := st.Put(ctx, authKey, blob); err != nil {
		s.logger.Warn("persist session failed", logging.Error(err))
	}
	return nil
}
