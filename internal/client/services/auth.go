// Package services contains the application services of the AdminDash
// client. This file defines the authentication service: the session
// lifecycle (startup restore, login, logout) and the password reset call.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/client/token"
	"github.com/dmitrijs2005/admindash/internal/logging"
)

// User-facing failure messages.
const (
	MsgCredentialsRequired = "Username and password are required"
	MsgServiceUnreachable  = "Unable to reach the authentication service. Please try again."
	MsgLoginFailed         = "Login failed. Please check your credentials."
	MsgNoToken             = "No token received from server"
	MsgInvalidToken        = "Invalid or expired token received"
	MsgResetFieldsRequired = "All fields are required"
	MsgResetFailed         = "Password reset failed. Please try again."

	ResetSucceeded = "Password reset successful."
)

// Fallbacks for identity claims missing from a restored token.
const (
	restoredEmail = "user@example.com"
	restoredName  = "User"
	defaultID     = "1"
	defaultRole   = "user"
)

// State is the authentication state seen by consumers.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User is the identity projected from token claims.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Result is the outcome of a user-initiated operation. Error is set only
// when Success is false.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func failure(msg string) Result { return Result{Error: msg} }

// SessionStore is the persistence the service needs. *session.Store
// satisfies it.
type SessionStore interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (session.Session, error)
	Clear(ctx context.Context) error
}

type snapshot struct {
	state  State
	user   User
	token  string
	permit string
}

// AuthService owns the authentication state. The zero value is not usable;
// construct with NewAuthService. All methods are safe for concurrent use.
type AuthService struct {
	client    client.AuthClient
	store     SessionStore
	codec     *token.Codec
	validator *token.Validator
	logger    logging.Logger
	now       func() time.Time

	// opMu serializes store writes together with the state change they
	// belong to. Lock order: opMu, then mu.
	opMu sync.Mutex

	mu      sync.RWMutex
	snap    snapshot
	subs    map[int]chan State
	nextSub int

	startOnce sync.Once
	ready     chan struct{}
	readyOnce sync.Once
}

type AuthOption func(*AuthService)

// WithAuthClock overrides time.Now, for tests.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *AuthService) { a.now = now }
}

func NewAuthService(c client.AuthClient, store SessionStore, codec *token.Codec, logger logging.Logger, opts ...AuthOption) *AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	a := &AuthService{
		client:    c,
		store:     store,
		codec:     codec,
		validator: token.NewValidator(codec),
		logger:    logger,
		now:       time.Now,
		subs:      make(map[int]chan State),
		ready:     make(chan struct{}),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Start restores the persisted session once. Later calls are no-ops. It
// never fails: anything short of a valid stored token resolves to
// StateUnauthenticated. If Login or Logout resolved the state first, the
// restored result is discarded.
func (a *AuthService) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		a.opMu.Lock()
		defer a.opMu.Unlock()

		if st := a.State(); st != StateUnknown {
			a.logger.Debug(ctx, "startup check skipped", "state", st.String())
			return
		}

		next := a.restore(ctx)

		a.mu.Lock()
		a.setLocked(next)
		a.mu.Unlock()
	})
}

func (a *AuthService) restore(ctx context.Context) snapshot {
	unauth := snapshot{state: StateUnauthenticated}

	sess, err := a.store.Load(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return unauth
	case err != nil:
		a.logger.Warn(ctx, "stored session unreadable, clearing", "error", err)
		a.clearStore(ctx)
		return unauth
	}

	if !a.validator.IsValid(sess.Token, a.now()) {
		a.logger.Info(ctx, "stored session expired or invalid, clearing")
		a.clearStore(ctx)
		return unauth
	}

	claims, err := a.codec.Decode(sess.Token)
	if err != nil {
		a.clearStore(ctx)
		return unauth
	}

	user := userFromClaims(claims, restoredEmail, restoredName)
	a.logger.Info(ctx, "session restored", "user_id", user.ID, "role", user.Role)
	return snapshot{state: StateAuthenticated, user: user, token: sess.Token}
}

// Ready is closed once the state has left StateUnknown.
func (a *AuthService) Ready() <-chan struct{} {
	return a.ready
}

// Login exchanges the credential for a token. The session is persisted only
// when a valid token was received.
func (a *AuthService) Login(ctx context.Context, username, password string) Result {
	if username == "" || password == "" {
		return failure(MsgCredentialsRequired)
	}

	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		var rej *client.RejectedError
		if errors.As(err, &rej) {
			a.logger.Info(ctx, "login rejected", "status", rej.Status)
			if rej.Message != "" {
				return failure(rej.Message)
			}
			return failure(MsgLoginFailed)
		}
		a.logger.Warn(ctx, "login request failed", "error", err)
		return failure(MsgServiceUnreachable)
	}

	if resp == nil || resp.Token == "" {
		a.logger.Warn(ctx, "login response carried no token")
		return failure(MsgNoToken)
	}

	if !a.validator.IsValid(resp.Token, a.now()) {
		a.logger.Warn(ctx, "login response carried an unusable token")
		return failure(MsgInvalidToken)
	}

	claims, err := a.codec.Decode(resp.Token)
	if err != nil {
		return failure(MsgInvalidToken)
	}

	user := userFromClaims(claims, username, username)

	a.opMu.Lock()
	defer a.opMu.Unlock()

	if err := a.store.Save(ctx, resp.Token); err != nil {
		a.logger.Error(ctx, "failed to persist session", "error", err)
	}

	a.mu.Lock()
	a.setLocked(snapshot{
		state:  StateAuthenticated,
		user:   user,
		token:  resp.Token,
		permit: resp.Permit,
	})
	a.mu.Unlock()

	a.logger.Info(ctx, "logged in", "user_id", user.ID, "role", user.Role)
	return Result{Success: true}
}

// Logout forgets the session locally. There is no server-side revocation.
func (a *AuthService) Logout(ctx context.Context) {
	a.opMu.Lock()
	defer a.opMu.Unlock()

	a.clearStore(ctx)

	a.mu.Lock()
	a.setLocked(snapshot{state: StateUnauthenticated})
	a.mu.Unlock()

	a.logger.Info(ctx, "logged out")
}

// ResetPassword asks the auth service to change the password. It does not
// touch the session.
func (a *AuthService) ResetPassword(ctx context.Context, username, oldPassword, newPassword string) Result {
	if username == "" || oldPassword == "" || newPassword == "" {
		return failure(MsgResetFieldsRequired)
	}

	text, err := a.client.ResetPassword(ctx, client.ResetPasswordRequest{
		Username:    username,
		OldPassword: oldPassword,
		NewPassword: newPassword,
	})
	if err != nil {
		var rej *client.RejectedError
		if errors.As(err, &rej) {
			a.logger.Info(ctx, "password reset rejected", "status", rej.Status)
			if rej.Message != "" {
				return failure(rej.Message)
			}
			return failure(MsgResetFailed)
		}
		a.logger.Warn(ctx, "password reset request failed", "error", err)
		return failure(MsgServiceUnreachable)
	}

	if text != ResetSucceeded {
		if text == "" {
			return failure(MsgResetFailed)
		}
		return failure(text)
	}
	return Result{Success: true}
}

func (a *AuthService) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.state
}

func (a *AuthService) IsAuthenticated() bool {
	return a.State() == StateAuthenticated
}

// CurrentUser returns the signed-in user; ok is false unless authenticated.
func (a *AuthService) CurrentUser() (User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.state != StateAuthenticated {
		return User{}, false
	}
	return a.snap.user, true
}

// Token returns the bearer token of the current session.
func (a *AuthService) Token() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap.state != StateAuthenticated {
		return "", false
	}
	return a.snap.token, true
}

// Permit returns the opaque permit received at login, if any.
func (a *AuthService) Permit() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap.permit
}

// Subscribe returns a channel that receives the current state immediately
// and then the latest state after each transition. A slow reader only sees
// the most recent value. cancel stops delivery and closes the channel.
func (a *AuthService) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	a.mu.Lock()
	id := a.nextSub
	a.nextSub++
	a.subs[id] = ch
	ch <- a.snap.state
	a.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.subs, id)
			close(ch)
			a.mu.Unlock()
		})
	}
	return ch, cancel
}

// setLocked replaces the snapshot and notifies subscribers. a.mu must be
// held for writing.
func (a *AuthService) setLocked(next snapshot) {
	prev := a.snap.state
	a.snap = next

	if next.state != StateUnknown {
		a.readyOnce.Do(func() { close(a.ready) })
	}
	if prev == next.state {
		return
	}

	for _, ch := range a.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- next.state:
		default:
		}
	}
}

func (a *AuthService) clearStore(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "failed to clear session", "error", err)
	}
}

func userFromClaims(c token.Claims, email, name string) User {
	u := User{ID: defaultID, Email: email, Name: name, Role: defaultRole}
	if v, ok := c.Lookup("id", "userId", "sub"); ok {
		u.ID = v
	}
	if v, ok := c.Lookup("email", "username"); ok {
		u.Email = v
	}
	if v, ok := c.Lookup("name", "username"); ok {
		u.Name = v
	}
	if r := c.Role(); r != "" {
		u.Role = r
	}
	return u
}
