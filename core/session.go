package core

import (
	"strings"
	"sync"
	"time"
)

// Session represents a conversational container owning the transcript, the
// context variables and the currently active agent reference. It is safe for
// concurrent access, though turns within a session execute strictly
// sequentially; different sessions share no mutable state.
//
// Contract:
//   - Append never mutates or removes prior messages
//   - Transcript returns a defensive copy to avoid external mutation
//   - MergeVars applies last-write-wins semantics per key
//   - Clone performs deep copies of maps/slices for safe divergence.
type Session struct {
	ID          string    `json:"id"`
	Transcript  []Message `json:"transcript"`
	Vars        Vars      `json:"vars"`
	ActiveAgent string    `json:"active_agent"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	mu          sync.RWMutex
}

// NewSession creates a session starting with the given active agent.
func NewSession(id, activeAgent string) *Session {
	now := time.Now()
	return &Session{ID: id, Transcript: []Message{}, Vars: Vars{}, ActiveAgent: activeAgent, Created: now, Updated: now}
}

// Append adds a message to the transcript stamped with the owning turn index.
func (s *Session) Append(turn int, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.Turn = turn
	s.Transcript = append(s.Transcript, msg)
	s.Updated = time.Now()
}

// GetTranscript returns a copy of the message slice to prevent callers from
// mutating internal state.
func (s *Session) GetTranscript() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.Transcript))
	copy(msgs, s.Transcript)
	return msgs
}

// ContainsContent reports whether any transcript message contains the given
// substring. Used by the loop driver to detect the closing sentinel.
func (s *Session) ContainsContent(substr string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.Transcript {
		if substr != "" && strings.Contains(m.Content, substr) {
			return true
		}
	}
	return false
}

// GetVar returns the value and existence flag for a context variable.
func (s *Session) GetVar(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Vars[key]
	return v, ok
}

// SetVar sets a single context variable updating the Updated timestamp.
func (s *Session) SetVar(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Vars[key] = value
	s.Updated = time.Now()
}

// MergeVars merges the provided key/value pairs into the context variables.
func (s *Session) MergeVars(delta Vars) {
	if len(delta) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.Vars[k] = v
	}
	s.Updated = time.Now()
}

// GetVars returns a copy of the context variables.
func (s *Session) GetVars() Vars {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Vars.Clone()
}

// SetActiveAgent records a handoff to the named agent.
func (s *Session) SetActiveAgent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ActiveAgent = name
	s.Updated = time.Now()
}

// GetActiveAgent returns the currently active agent identifier.
func (s *Session) GetActiveAgent() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ActiveAgent
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{ID: s.ID, Transcript: make([]Message, len(s.Transcript)), Vars: s.Vars.Clone(), ActiveAgent: s.ActiveAgent, Created: s.Created, Updated: s.Updated}
	copy(clone.Transcript, s.Transcript)
	return clone
}
