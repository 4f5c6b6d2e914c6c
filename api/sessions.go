package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const sessionDuration = 24 * time.Hour

type sessionEntry struct {
	userID    int
	expiresAt time.Time
}

// sessionStore tracks which token IDs are still live, so logout actually
// revokes a token instead of waiting for it to expire.
type sessionStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
}

func newSessionStore() *sessionStore {
	s := &sessionStore{
		entries: make(map[string]sessionEntry),
	}
	go func(s *sessionStore) {
		ticker := time.NewTicker(time.Minute)
		for {
			<-ticker.C
			func() {
				s.mu.Lock()
				defer s.mu.Unlock()
				for k, v := range s.entries {
					if time.Now().After(v.expiresAt) {
						delete(s.entries, k)
					}
				}
			}()
		}
	}(s)
	return s
}

// establish registers a brand new session ID for userID. A fresh ID is
// minted on every call, so logging in never reuses an existing token.
func (s *sessionStore) establish(userID int, d time.Duration) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = sessionEntry{
		userID:    userID,
		expiresAt: time.Now().Add(d),
	}
	return id
}

func (s *sessionStore) lookup(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok || time.Now().After(e.expiresAt) {
		return 0, false
	}
	return e.userID, true
}

func (s *sessionStore) terminate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

type sessionClaims struct {
	UserID int `json:"user_id"`
	jwt.RegisteredClaims
}

func (app *application) issueToken(u *user) (string, time.Time, error) {
	expiresAt := time.Now().Add(sessionDuration)
	id := app.sessions.establish(u.ID, sessionDuration)
	claims := sessionClaims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(app.config.jwtSecret))
	if err != nil {
		app.sessions.terminate(id)
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (app *application) parseToken(tokenStr string) (*sessionClaims, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(app.config.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	userID, ok := app.sessions.lookup(claims.ID)
	if !ok || userID != claims.UserID {
		return nil, errors.New("session no longer active")
	}
	return &claims, nil
}
