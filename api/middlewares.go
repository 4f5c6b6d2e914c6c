package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type contextKey string

const (
	userContextKey    contextKey = "userContextKey"
	sessionContextKey contextKey = "sessionContextKey"
)

func getUserFromRequest(r *http.Request) *user {
	u, _ := r.Context().Value(userContextKey).(*user)
	return u
}

func getSessionFromRequest(r *http.Request) string {
	id, _ := r.Context().Value(sessionContextKey).(string)
	return id
}

// authenticate resolves the bearer token to a user and session ID. It
// returns nil without error when no Authorization header is present.
func (app *application) authenticate(r *http.Request) (*user, string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, "", nil
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "", errors.New("invalid Authorization header")
	}
	claims, err := app.parseToken(parts[1])
	if err != nil {
		return nil, "", errors.New("invalid token")
	}
	u, err := app.storage.getUserByID(claims.UserID)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", errors.New("user no longer exists")
	}
	return u, claims.ID, nil
}

func withPrincipal(r *http.Request, u *user, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, u)
	ctx = context.WithValue(ctx, sessionContextKey, sessionID)
	return r.WithContext(ctx)
}

// requireAuth rejects the request unless it carries a live session.
func (app *application) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		u, sessionID, err := app.authenticate(r)
		if err != nil {
			writeError(w, err, http.StatusUnauthorized)
			return
		}
		if u == nil {
			writeError(w, errors.New("you must be logged in to access this resource"), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, withPrincipal(r, u, sessionID))
	}
}

// maybeAuth attaches the principal when a valid token is present but
// lets anonymous requests through. The home view uses it to degrade to
// an empty listing instead of an error.
func (app *application) maybeAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")
		u, sessionID, err := app.authenticate(r)
		if err != nil || u == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, withPrincipal(r, u, sessionID))
	}
}

// requireAdmin must run inside requireAuth.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := getUserFromRequest(r)
		if !u.IsAdmin {
			writeError(w, errors.New("you must be an administrator to access this resource"), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (app *application) rateLimit(next http.Handler) http.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.RWMutex
		clients = make(map[string]client)
	)
	go func() {
		for {
			time.Sleep(time.Minute)
			func() {
				mu.Lock()
				defer mu.Unlock()
				for ip, client := range clients {
					if time.Since(client.lastSeen) >= time.Minute*3 {
						delete(clients, ip)
					}
				}
			}()
		}
	}()
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			log.Println(err)
			writeError(w, errors.New("internal server error"), http.StatusInternalServerError)
			return
		}
		mu.Lock()
		c, ok := clients[ip]
		if !ok {
			c = client{
				limiter: rate.NewLimiter(rate.Limit(app.config.limiter.maxRequestPerSecond), app.config.limiter.burst),
			}
		}
		c.lastSeen = time.Now()
		clients[ip] = c
		if !c.limiter.Allow() {
			mu.Unlock()
			writeError(w, errors.New("rate limit exceeded"), http.StatusTooManyRequests)
			return
		}
		mu.Unlock()
		next.ServeHTTP(w, r)
	}
}

func (app *application) enableCORS(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		w.Header().Add("Vary", "Access-Control-Request-Method")

		origin := r.Header.Get("Origin")
		if origin != "" {
			for _, o := range app.config.cors.trustedOrigins {
				if origin == o || o == "*" {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					// preflight request
					if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
						w.Header().Set("Access-Control-Allow-Methods", "OPTIONS, GET, POST, PUT, PATCH, DELETE")
						w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
						w.WriteHeader(http.StatusOK)
						return
					}
					break
				}
			}
		}
		next.ServeHTTP(w, r)
	}
}
