package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ResetToken is a time-boxed password reset grant. Tokens live only for the
// process lifetime.
type ResetToken struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// TokenStore holds reset tokens in memory behind a mutex. Volume is tiny, so
// a linear scan is fine.
type TokenStore struct {
	mu     sync.Mutex
	tokens []ResetToken
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenStore{ttl: ttl, now: time.Now}
}

// Issue mints a new token for the subject email.
func (s *TokenStore) Issue(email string) ResetToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := ResetToken{
		Token:     uuid.New().String(),
		Email:     email,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.tokens = append(s.tokens, token)
	return token
}

// Find returns the token record if it exists and has not expired.
func (s *TokenStore) Find(token string) (ResetToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, t := range s.tokens {
		if t.Token == token && t.ExpiresAt.After(now) {
			return t, true
		}
	}
	return ResetToken{}, false
}

// Consume removes the token regardless of expiry.
func (s *TokenStore) Consume(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tokens {
		if t.Token == token {
			s.tokens = append(s.tokens[:i], s.tokens[i+1:]...)
			return
		}
	}
}

// Sweep drops every expired token.
func (s *TokenStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	kept := s.tokens[:0]
	for _, t := range s.tokens {
		if t.ExpiresAt.After(now) {
			kept = append(kept, t)
		}
	}
	s.tokens = kept
}
