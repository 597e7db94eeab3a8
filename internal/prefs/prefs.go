package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"genvid/internal/state"
)

// languageKey is the blob key holding the UI language preference.
const languageKey = "genvid-language"

// DefaultLanguage is used before a preference has been stored.
const DefaultLanguage = "zh"

// supported lists the product's UI languages.
var supported = []language.Tag{
	language.Chinese,
	language.English,
}

var matcher = language.NewMatcher(supported)

// ErrUnsupportedLanguage rejects codes outside the product set.
var ErrUnsupportedLanguage = errors.New("prefs: unsupported language")

type persistedLanguage struct {
	Language string `json:"language"`
}

// Store holds the UI language preference backed by the state store. A nil
// state store keeps the preference in memory only.
type Store struct {
	mu    sync.RWMutex
	state *state.Store
	lang  string
}

// New builds a preference store. Call Load before reading.
func New(st *state.Store) *Store {
	return &Store{state: st, lang: DefaultLanguage}
}

// Load reads the persisted preference. A missing blob leaves the default.
func (s *Store) Load(ctx context.Context) error {
	if s.state == nil {
		return nil
	}
	blob, err := s.state.Get(ctx, languageKey)
	if errors.Is(err, state.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load language preference: %w", err)
	}
	var persisted persistedLanguage
	if err := json.Unmarshal(blob, &persisted); err != nil {
		return nil // corrupt blob falls back to the default
	}
	if normalized, err := Normalize(persisted.Language); err == nil {
		s.mu.Lock()
		s.lang = normalized
		s.mu.Unlock()
	}
	return nil
}

// Language returns the current preference code (zh or en).
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage validates, stores, and persists a new preference.
func (s *Store) SetLanguage(ctx context.Context, code string) error {
	normalized, err := Normalize(code)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lang = normalized
	s.mu.Unlock()

	if s.state == nil {
		return nil
	}
	blob, err := json.Marshal(persistedLanguage{Language: normalized})
	if err != nil {
		return fmt.Errorf("encode language preference: %w", err)
	}
	if err := s.state.Put(ctx, languageKey, blob); err != nil {
		return fmt.Errorf("persist language preference: %w", err)
	}
	return nil
}

// Normalize canonicalizes a language code and restricts it to the supported
// set. Region subtags collapse to their base ("en-US" becomes "en").
func Normalize(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnsupportedLanguage)
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	base, _ := supported[index].Base()
	return base.String(), nil
}
