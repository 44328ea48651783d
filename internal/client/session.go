package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/relayvision/visionlog/internal/model"
)

// AuthEvent is what OnAuthStateChange listeners are told.
type AuthEvent string

const (
	SignedIn  AuthEvent = "SIGNED_IN"
	SignedOut AuthEvent = "SIGNED_OUT"
)

// Session holds the signed-in state for the process and mirrors it to a
// credentials file so the next run starts signed in.
type Session struct {
	mu        sync.Mutex
	path      string
	current   *model.Session
	listeners map[int]func(AuthEvent, *model.Session)
	nextID    int
}

// LoadSession restores the session stored at path. A missing file means
// signed out. An empty path keeps the session in memory only.
func LoadSession(path string) (*Session, error) {
	s := &Session{path: path, listeners: map[int]func(AuthEvent, *model.Session){}}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	var stored model.Session
	if err := jsoniter.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}
	if stored.AccessToken != "" && !stored.Expired() {
		s.current = &stored
	}
	return s, nil
}

// Current returns a copy of the session, or nil when signed out.
func (s *Session) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// Token returns the bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Expired() {
		return ""
	}
	return s.current.AccessToken
}

// Set stores a fresh session and notifies listeners.
func (s *Session) Set(session *model.Session) error {
	s.mu.Lock()
	cp := *session
	s.current = &cp
	err := s.persist()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(SignedIn, &cp)
	}
	return err
}

// Clear signs out locally and notifies listeners.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.current = nil
	err := s.persist()
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(SignedOut, nil)
	}
	return err
}

// OnAuthStateChange registers fn for sign-in and sign-out. The returned
// func removes it.
func (s *Session) OnAuthStateChange(fn func(AuthEvent, *model.Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Session) snapshotListeners() []func(AuthEvent, *model.Session) {
	out := make([]func(AuthEvent, *model.Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

// persist must be called with mu held.
func (s *Session) persist() error {
	if s.path == "" {
		return nil
	}
	if s.current == nil {
		err := os.Remove(s.path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove credentials: %w", err)
		}
		return nil
	}

	err := os.MkdirAll(filepath.Dir(s.path), 0700)
	if err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := jsoniter.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}
	// Owner read/write only
	err = os.WriteFile(s.path, data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write credentials: %w", err)
	}
	return nil
}
