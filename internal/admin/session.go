// Package admin gates management operations behind a shared passphrase.
package admin

import (
	"crypto/subtle"
	"errors"
	"sync"
)

// ErrBadPassphrase indicates a failed unlock attempt.
var ErrBadPassphrase = errors.New("passphrase does not match")

// Session tracks whether management mode is unlocked. The flag lives only in
// memory; a restart always comes back locked.
type Session struct {
	passphrase string

	mu       sync.Mutex
	unlocked bool
}

// NewSession creates a locked session guarded by the given passphrase.
func NewSession(passphrase string) *Session {
	return &Session{passphrase: passphrase}
}

// Unlock compares the attempt against the passphrase in constant time.
func (s *Session) Unlock(attempt string) error {
	if subtle.ConstantTimeCompare([]byte(attempt), []byte(s.passphrase)) != 1 {
		return ErrBadPassphrase
	}
	s.mu.Lock()
	s.unlocked = true
	s.mu.Unlock()
	return nil
}

// Lock returns the session to the locked state.
func (s *Session) Lock() {
	s.mu.Lock()
	s.unlocked = false
	s.mu.Unlock()
}

// Unlocked reports whether management mode is active.
func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked
}
