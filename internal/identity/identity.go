// Package identity fronts the external identity provider: it turns a
// bearer token into a session and fans out sign-in state transitions to
// registered subscribers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Session is the resolved identity of one request. IsNewUser comes from
// the provider's claims and feeds coupon eligibility; it is never
// derived locally.
type Session struct {
	UserID    string
	IsNewUser bool
}

// Event is a sign-in state transition for one user.
type Event struct {
	UserID   string
	SignedIn bool
}

// Provider resolves tokens and lets interested parties watch sign-in
// transitions.
type Provider interface {
	SessionFromToken(ctx context.Context, token string) (Session, error)
	Subscribe(fn func(Event)) (unsubscribe func())
}

// JWTProvider verifies HMAC-signed tokens carrying user_id and new_user
// claims.
type JWTProvider struct {
	secret []byte

	mu   sync.RWMutex
	next int
	subs map[int]func(Event)
}

func NewJWTProvider(secret []byte) *JWTProvider {
	return &JWTProvider{
		secret: secret,
		subs:   make(map[int]func(Event)),
	}
}

func (p *JWTProvider) SessionFromToken(_ context.Context, tokenString string) (Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Session{}, ErrInvalidToken
	}

	newUser, _ := claims["new_user"].(bool)
	return Session{UserID: userID, IsNewUser: newUser}, nil
}

// Subscribe registers a callback for sign-in transitions. The returned
// func removes the registration.
func (p *JWTProvider) Subscribe(fn func(Event)) func() {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

// Announce publishes a transition to every subscriber. Callbacks run on
// the caller's goroutine.
func (p *JWTProvider) Announce(ev Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, fn := range p.subs {
		fn(ev)
	}
}
