// Package session tracks the authenticated user and broadcasts sign-in/sign-out events.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "SIGNED_IN"
	case SignedOut:
		return "SIGNED_OUT"
	default:
		return "UNKNOWN"
	}
}

type Event struct {
	Kind EventKind
	// User is set for SignedIn.
	User User
}

// Provider is the authentication/session collaborator.
type Provider interface {
	CurrentUser() (User, bool)
	// OnAuthStateChange registers fn for sign-in/sign-out events and returns an unsubscribe func.
	// Handlers may be invoked from any goroutine.
	OnAuthStateChange(fn func(Event)) (unsubscribe func())
	SignIn(ctx context.Context, email, password string) (User, error)
	SignOut(ctx context.Context) error
	// Restore re-establishes a previously saved session, if any is still valid.
	Restore(ctx context.Context) (User, bool, error)
}

var ErrInvalidCredentials = errors.New("email and password are required")

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

var credentialsValidator = validator.New()

func checkCredentials(email, password string, needPassword bool) (string, error) {
	c := credentials{Email: strings.TrimSpace(email), Password: password}
	if !needPassword && c.Password == "" {
		c.Password = "-"
	}
	if err := credentialsValidator.Struct(c); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return c.Email, nil
}

// hub holds the current user and the registered auth-state handlers.
type hub struct {
	mu       sync.Mutex
	user     *User
	handlers map[int]func(Event)
	nextID   int
}

func (h *hub) CurrentUser() (User, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.user == nil {
		return User{}, false
	}
	return *h.user, true
}

func (h *hub) OnAuthStateChange(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handlers == nil {
		h.handlers = map[int]func(Event){}
	}
	id := h.nextID
	h.nextID++
	h.handlers[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.handlers, id)
	}
}

// set swaps the current user and notifies handlers (outside the lock).
func (h *hub) set(u *User) {
	h.mu.Lock()
	if u != nil {
		cp := *u
		h.user = &cp
	} else {
		h.user = nil
	}
	fns := make([]func(Event), 0, len(h.handlers))
	for _, fn := range h.handlers {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	ev := Event{Kind: SignedOut}
	if u != nil {
		ev = Event{Kind: SignedIn, User: *u}
	}
	for _, fn := range fns {
		fn(ev)
	}
}
