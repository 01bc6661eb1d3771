package sessions

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"applykit-backend/internal/templates"
)

// Store keeps every live session in memory. Nothing survives a
// restart. Stale sessions are swept lazily on access, so no background
// goroutine is needed.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	ttl       time.Duration
	lastSweep time.Time
	onEvict   func(sessionID string)
	now       func() time.Time
}

// NewStore builds a store whose sessions expire after ttl of
// inactivity. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnEvict registers a callback run when a session expires or is reset,
// so sibling stores can drop their per-session state. The callback is
// invoked under the store lock and must not call back into the store.
func (st *Store) OnEvict(fn func(sessionID string)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onEvict = fn
}

// Snapshot returns a copy of the current session state, creating the
// session if this is the first time the id is seen.
func (st *Store) Snapshot(id string) Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.touch(id).clone()
}

// UpdateProfile replaces the personal info block.
func (st *Store) UpdateProfile(id string, info PersonalInfo) Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.touch(id)
	s.PersonalInfo = info
	return s.clone()
}

// UpdateSettings replaces the provider settings. An empty key keeps
// the previous one: the key is never echoed back to clients, so a
// client resubmitting the settings form cannot round-trip it.
func (st *Store) UpdateSettings(id string, settings Settings) Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.touch(id)
	if settings.APIKey == "" {
		settings.APIKey = s.Settings.APIKey
	}
	s.Settings = settings
	return s.clone()
}

// SetResume stores freshly extracted resume text. It is only called
// after extraction succeeds, so a failed upload never clobbers the
// previous resume.
func (st *Store) SetResume(id, text, fileName string) Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.touch(id)
	s.ResumeText = text
	s.ResumeFileName = fileName
	return s.clone()
}

// UpdateResumeText replaces the resume text in place, keeping the
// uploaded file name as provenance.
func (st *Store) UpdateResumeText(id, text string) Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.touch(id)
	s.ResumeText = text
	return s.clone()
}

// Reset discards everything the session held, including the API key,
// while keeping the session id usable.
func (st *Store) Reset(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	st.sessions[id] = &Session{ID: id, CreatedAt: now, LastSeen: now}
	if st.onEvict != nil {
		st.onEvict(id)
	}
}

// BeginGeneration validates readiness, clears the previous documents,
// and marks the session busy. The returned clone is the consistent
// input snapshot for the whole pipeline. A missing API key is not
// checked here; the provider client reports it as an authentication
// failure.
func (st *Store) BeginGeneration(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.touch(id)
	if s.Generating {
		return Session{}, ErrGenerationBusy
	}
	if strings.TrimSpace(s.ResumeText) == "" {
		return Session{}, fmt.Errorf("%w: upload a resume first", ErrNotReady)
	}
	if strings.TrimSpace(s.PersonalInfo.FullName) == "" {
		return Session{}, fmt.Errorf("%w: set your full name first", ErrNotReady)
	}
	s.Generating = true
	s.Documents = nil
	return s.clone(), nil
}

// CompleteGeneration publishes the pipeline output. The publish is
// dropped when the session was reset while the pipeline ran.
func (st *Store) CompleteGeneration(id string, info GenerationInfo, docs map[templates.DocType]Document) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.touch(id)
	if !s.Generating {
		return
	}
	s.Generating = false
	s.LastGeneration = info
	s.Documents = docs
}

// FailGeneration clears the busy flag after a pipeline error. The
// documents were already cleared at accept time, so the session lands
// back in configured and the user may retry.
func (st *Store) FailGeneration(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.touch(id).Generating = false
}

// Document returns one generated document for download.
func (st *Store) Document(id string, dt templates.DocType) (Document, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	doc, ok := st.touch(id).Documents[dt]
	return doc, ok
}

// touch returns the live session for id, creating it when absent, and
// stamps the access time. Caller must hold the lock.
func (st *Store) touch(id string) *Session {
	now := st.now()
	st.sweep(now)
	s, ok := st.sessions[id]
	if !ok {
		s = &Session{ID: id, CreatedAt: now}
		st.sessions[id] = s
	}
	s.LastSeen = now
	return s
}

// sweep drops sessions idle past the TTL. It runs at most every
// quarter TTL so hot paths stay cheap. Caller must hold the lock.
func (st *Store) sweep(now time.Time) {
	if st.ttl <= 0 || now.Sub(st.lastSweep) < st.ttl/4 {
		return
	}
	st.lastSweep = now
	for id, s := range st.sessions {
		if s.Generating {
			continue
		}
		if now.Sub(s.LastSeen) > st.ttl {
			delete(st.sessions, id)
			if st.onEvict != nil {
				st.onEvict(id)
			}
		}
	}
}
