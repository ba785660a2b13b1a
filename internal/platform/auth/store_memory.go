package auth

import (
	"context"
	"sync"
)

// InMemoryStore implements PrincipalStore and SessionStore with maps guarded
// by a sync.RWMutex. It is intended for tests and local experiments.
type InMemoryStore struct {
	mu          sync.RWMutex
	credentials map[string]*Credential
	secrets     []APISecret
	groups      map[int64]int64
	profiles    map[int64]*Profile
	sessions    map[int64]*Session
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		credentials: make(map[string]*Credential),
		groups:      make(map[int64]int64),
		profiles:    make(map[int64]*Profile),
		sessions:    make(map[int64]*Session),
	}
}

// AddUser registers a user with the given group and profile. A nil profile
// leaves the user without profile data.
func (s *InMemoryStore) AddUser(userID, group int64, profile *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[userID] = group
	if profile != nil {
		p := *profile
		s.profiles[userID] = &p
	}
}

// AddCredential registers a username with its password hash.
func (s *InMemoryStore) AddCredential(userID int64, username, passwordHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[username] = &Credential{
		UserID:       userID,
		Username:     username,
		PasswordHash: passwordHash,
		Group:        s.groups[userID],
	}
}

// AddSecret appends an API secret hash. Secrets are scanned in insertion order.
func (s *InMemoryStore) AddSecret(userID int64, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets = append(s.secrets, APISecret{UserID: userID, Hash: hash})
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemoryStore) ListSecrets(_ context.Context) ([]APISecret, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]APISecret, len(s.secrets))
	copy(out, s.secrets)
	return out, nil
}

func (s *InMemoryStore) GroupByUserID(_ context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[userID]
	if !ok {
		return 0, ErrNotFound
	}
	return g, nil
}

func (s *InMemoryStore) Profile(_ context.Context, userID int64) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sess.UserID]; ok {
		existing.Token = sess.Token
		existing.ExpiresAt = sess.ExpiresAt
		return nil
	}
	cp := *sess
	s.sessions[sess.UserID] = &cp
	return nil
}

func (s *InMemoryStore) HasSession(_ context.Context, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok, nil
}

func (s *InMemoryStore) FindToken(_ context.Context, token string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.Token == token {
			return sess.UserID, nil
		}
	}
	return 0, ErrNotFound
}

func (s *InMemoryStore) FindActiveToken(_ context.Context, token string, now int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.Token == token && sess.ExpiresAt > now {
			return sess.UserID, nil
		}
	}
	return 0, ErrNotFound
}

// Session returns a copy of the stored session for userID.
func (s *InMemoryStore) Session(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// SessionCount returns the number of stored sessions.
func (s *InMemoryStore) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SetSessionExpiry overwrites the expiry of an existing session.
func (s *InMemoryStore) SetSessionExpiry(userID, expiresAt int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.ExpiresAt = expiresAt
	}
}
