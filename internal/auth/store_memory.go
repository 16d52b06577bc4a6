package auth

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type MemStore struct {
	mu      sync.RWMutex
	byEmail map[string]User
	byID    map[string]string // id -> email
}

func NewMemStore() *MemStore {
	return &MemStore{
		byEmail: make(map[string]User),
		byID:    make(map[string]string),
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Create(ctx context.Context, u User, password string) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return ErrEmailExists
	}

	u.Email = email
	u.Hash = hash
	s.byEmail[email] = u
	s.byID[u.ID] = email
	return nil
}

func (s *MemStore) Verify(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.RLock()
	u, ok := s.byEmail[email]
	s.mu.RUnlock()

	if !ok || len(u.Hash) == 0 {
		return User{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(strings.TrimSpace(password))); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *MemStore) GetByID(ctx context.Context, id string) (User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email, ok := s.byID[id]
	if !ok {
		return User{}, false, nil
	}
	u, ok := s.byEmail[email]
	return u, ok, nil
}

func (s *MemStore) UpsertSocial(ctx context.Context, u User) (User, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byEmail[email]; ok {
		return existing, nil
	}

	u.Email = email
	u.Hash = nil
	s.byEmail[email] = u
	s.byID[u.ID] = email
	return u, nil
}
