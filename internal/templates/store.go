package templates

import (
	"embed"
	"fmt"
	"sync"
)

//go:embed defaults/cover_letter.txt defaults/follow_up_email.txt defaults/linkedin_message.txt
var defaultsFS embed.FS

var defaults = loadDefaults()

func loadDefaults() map[DocType]string {
	out := make(map[DocType]string, 3)
	for _, dt := range AllTypes() {
		data, err := defaultsFS.ReadFile("defaults/" + string(dt) + ".txt")
		if err != nil {
			panic(fmt.Sprintf("templates: missing embedded default for %s: %v", dt, err))
		}
		out[dt] = string(data)
	}
	return out
}

// Default returns the compiled-in template for a document type.
func Default(dt DocType) (string, bool) {
	text, ok := defaults[dt]
	return text, ok
}

// Store holds the default templates plus per-session overrides. Overrides
// live in process memory for the lifetime of the session.
type Store struct {
	mu        sync.RWMutex
	overrides map[string]map[DocType]string
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{overrides: make(map[string]map[DocType]string)}
}

// Get returns the active template for the session: the override when one
// is set, the default otherwise.
func (s *Store) Get(sessionID string, dt DocType) (string, error) {
	def, ok := defaults[dt]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, dt)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if byType, ok := s.overrides[sessionID]; ok {
		if text, ok := byType[dt]; ok {
			return text, nil
		}
	}
	return def, nil
}

// GetAll returns the active template for every document type.
func (s *Store) GetAll(sessionID string) map[DocType]string {
	out := make(map[DocType]string, len(defaults))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for dt, def := range defaults {
		out[dt] = def
		if byType, ok := s.overrides[sessionID]; ok {
			if text, ok := byType[dt]; ok {
				out[dt] = text
			}
		}
	}
	return out
}

// IsOverridden reports whether the session has replaced the default.
func (s *Store) IsOverridden(sessionID string, dt DocType) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byType, ok := s.overrides[sessionID]
	if !ok {
		return false
	}
	_, ok = byType[dt]
	return ok
}

// Set stores a session override. No placeholder validation happens here;
// unknown tokens are tolerated and simply never substituted.
func (s *Store) Set(sessionID string, dt DocType, text string) error {
	if _, ok := defaults[dt]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, dt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	byType, ok := s.overrides[sessionID]
	if !ok {
		byType = make(map[DocType]string, 3)
		s.overrides[sessionID] = byType
	}
	byType[dt] = text
	return nil
}

// Reset drops the session override so Get returns the byte-for-byte
// default again.
func (s *Store) Reset(sessionID string, dt DocType) error {
	if _, ok := defaults[dt]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, dt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if byType, ok := s.overrides[sessionID]; ok {
		delete(byType, dt)
		if len(byType) == 0 {
			delete(s.overrides, sessionID)
		}
	}
	return nil
}

// Drop discards every override held for the session.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, sessionID)
}
