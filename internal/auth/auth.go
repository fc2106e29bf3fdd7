// Package auth provides credential hashing and checking for the websocket
// join flow.
package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Store is an in-memory credential store keyed by player name.
type Store struct {
	mu     sync.RWMutex
	hashes map[string]string
}

// NewStore creates an empty credential store.
func NewStore() *Store {
	return &Store{hashes: make(map[string]string)}
}

// Register hashes and stores credentials for the name. Re-registering an
// existing name is an error.
func (s *Store) Register(name, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.hashes[name]; exists {
		return fmt.Errorf("player %s already registered", name)
	}
	s.hashes[name] = hash
	return nil
}

// Authenticate reports whether the name/password pair is valid.
func (s *Store) Authenticate(name, password string) bool {
	s.mu.RLock()
	hash, ok := s.hashes[name]
	s.mu.RUnlock()
	return ok && CheckPassword(hash, password)
}
