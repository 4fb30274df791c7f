package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/admindash/internal/client/client"
	"github.com/dmitrijs2005/admindash/internal/client/session"
	"github.com/dmitrijs2005/admindash/internal/client/token"
	"github.com/dmitrijs2005/admindash/internal/client/token/tokentest"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeAuthClient struct {
	mu sync.Mutex

	LoginResp *client.LoginResponse
	LoginErr  error
	ResetText string
	ResetErr  error

	LoginCalls int
	ResetCalls int
	LastReset  client.ResetPasswordRequest
}

func (f *fakeAuthClient) Login(ctx context.Context, username, password string) (*client.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	return f.LoginResp, f.LoginErr
}

func (f *fakeAuthClient) ResetPassword(ctx context.Context, req client.ResetPasswordRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResetCalls++
	f.LastReset = req
	return f.ResetText, f.ResetErr
}

type memStore struct {
	mu       sync.Mutex
	sess     *session.Session
	loadErr  error
	saves    int
	saveErr  error
	clears   int
	clearErr error
}

func (m *memStore) Save(ctx context.Context, tok string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sess = &session.Session{Token: tok, ExpiresAt: time.Now().Add(time.Hour)}
	return nil
}

func (m *memStore) Load(ctx context.Context) (session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return session.Session{}, m.loadErr
	}
	if m.sess == nil {
		return session.Session{}, session.ErrNoSession
	}
	return *m.sess, nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.sess = nil
	return m.clearErr
}

func (m *memStore) stored() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return "", false
	}
	return m.sess.Token, true
}

// gatedStore parks the first Load until release is closed.
type gatedStore struct {
	*memStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedStore(m *memStore) *gatedStore {
	return &gatedStore{memStore: m, entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) Load(ctx context.Context) (session.Session, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.memStore.Load(ctx)
}

func newService(c client.AuthClient, s SessionStore) *AuthService {
	return NewAuthService(c, s, token.NewCodec(logging.Nop()), logging.Nop())
}

// ---- login / logout ----

func TestLogin_AdminRoleIsLowerCased(t *testing.T) {
	tok := tokentest.Expiring(t, "Admin", 24*time.Hour)
	fc := &fakeAuthClient{LoginResp: &client.LoginResponse{Token: tok, Permit: "p-1"}}
	st := &memStore{}
	svc := newService(fc, st)

	res := svc.Login(context.Background(), "alice", "pw")
	require.Equal(t, Result{Success: true}, res)

	user, ok := svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, User{ID: "42", Email: "alice", Name: "alice", Role: "admin"}, user)
	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, StateAuthenticated, svc.State())
	assert.Equal(t, "p-1", svc.Permit())

	got, ok := svc.Token()
	require.True(t, ok)
	assert.Equal(t, tok, got)

	stored, ok := st.stored()
	require.True(t, ok)
	assert.Equal(t, tok, stored)
}

func TestLogin_ThenLogoutClearsEverything(t *testing.T) {
	tok := tokentest.Expiring(t, "user", time.Hour)
	fc := &fakeAuthClient{LoginResp: &client.LoginResponse{Token: tok, Permit: "p"}}
	st := &memStore{}
	svc := newService(fc, st)

	require.True(t, svc.Login(context.Background(), "bob", "pw").Success)
	svc.Logout(context.Background())

	_, ok := st.stored()
	assert.False(t, ok)
	assert.False(t, svc.IsAuthenticated())
	assert.Equal(t, StateUnauthenticated, svc.State())
	_, ok = svc.CurrentUser()
	assert.False(t, ok)
	_, ok = svc.Token()
	assert.False(t, ok)
	assert.Empty(t, svc.Permit())
}

func TestLogin_Failures(t *testing.T) {
	expired := tokentest.Expiring(t, "admin", -time.Hour)

	tests := []struct {
		name      string
		user, pw  string
		resp      *client.LoginResponse
		err       error
		wantMsg   string
		wantCalls int
	}{
		{"empty username", "", "pw", nil, nil, MsgCredentialsRequired, 0},
		{"empty password", "alice", "", nil, nil, MsgCredentialsRequired, 0},
		{"transport", "alice", "pw", nil, errors.Join(client.ErrUnavailable, errors.New("dial")), MsgServiceUnreachable, 1},
		{"rejected with message", "alice", "pw", nil, &client.RejectedError{Status: 401, Message: "bad credentials"}, "bad credentials", 1},
		{"rejected without message", "alice", "pw", nil, &client.RejectedError{Status: 500}, MsgLoginFailed, 1},
		{"no token", "alice", "pw", &client.LoginResponse{}, nil, MsgNoToken, 1},
		{"nil response", "alice", "pw", nil, nil, MsgNoToken, 1},
		{"expired token", "alice", "pw", &client.LoginResponse{Token: expired}, nil, MsgInvalidToken, 1},
		{"garbage token", "alice", "pw", &client.LoginResponse{Token: "not-a-token"}, nil, MsgInvalidToken, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeAuthClient{LoginResp: tt.resp, LoginErr: tt.err}
			st := &memStore{}
			svc := newService(fc, st)

			res := svc.Login(context.Background(), tt.user, tt.pw)
			assert.Equal(t, Result{Error: tt.wantMsg}, res)
			assert.Equal(t, tt.wantCalls, fc.LoginCalls)
			assert.Zero(t, st.saves)
			assert.False(t, svc.IsAuthenticated())
		})
	}
}

func TestLogin_NoTokenLeavesStoredSessionUntouched(t *testing.T) {
	prev := tokentest.Expiring(t, "user", time.Hour)
	st := &memStore{sess: &session.Session{Token: prev, ExpiresAt: time.Now().Add(time.Hour)}}
	fc := &fakeAuthClient{LoginResp: &client.LoginResponse{Permit: "only-permit"}}
	svc := newService(fc, st)

	res := svc.Login(context.Background(), "alice", "pw")
	assert.Equal(t, MsgNoToken, res.Error)

	got, ok := st.stored()
	require.True(t, ok)
	assert.Equal(t, prev, got)
	assert.Zero(t, st.saves)
	assert.Zero(t, st.clears)
}

func TestLogin_SaveFailureStillAuthenticates(t *testing.T) {
	tok := tokentest.Expiring(t, "user", time.Hour)
	st := &memStore{saveErr: errors.New("disk full")}
	svc := newService(&fakeAuthClient{LoginResp: &client.LoginResponse{Token: tok}}, st)

	res := svc.Login(context.Background(), "alice", "pw")

	assert.Equal(t, Result{Success: true}, res)
	assert.Equal(t, StateAuthenticated, svc.State())
	got, _ := svc.Token()
	assert.Equal(t, tok, got)
	assert.Equal(t, 1, st.saves)
	_, ok := st.stored()
	assert.False(t, ok)
}

func TestLogin_ClaimFallbacks(t *testing.T) {
	tok := tokentest.Sign(t, map[string]any{
		"userId":   7,
		"username": "carol",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	svc := newService(&fakeAuthClient{LoginResp: &client.LoginResponse{Token: tok}}, &memStore{})

	require.True(t, svc.Login(context.Background(), "typed-name", "pw").Success)

	user, ok := svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, User{ID: "7", Email: "carol", Name: "carol", Role: "user"}, user)
}

// ---- startup ----

func TestStart_NoSession(t *testing.T) {
	st := &memStore{}
	svc := newService(&fakeAuthClient{}, st)
	assert.Equal(t, StateUnknown, svc.State())

	svc.Start(context.Background())

	assert.Equal(t, StateUnauthenticated, svc.State())
	assert.Zero(t, st.clears)
	select {
	case <-svc.Ready():
	default:
		t.Fatal("ready not closed")
	}
}

func TestStart_ValidSessionRestoresUser(t *testing.T) {
	tok := tokentest.Sign(t, map[string]any{
		"sub":  "9",
		"role": "Manager",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	st := &memStore{sess: &session.Session{Token: tok, ExpiresAt: time.Now().Add(time.Hour)}}
	svc := newService(&fakeAuthClient{}, st)

	svc.Start(context.Background())

	user, ok := svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, User{ID: "9", Email: "user@example.com", Name: "User", Role: "manager"}, user)
	got, _ := svc.Token()
	assert.Equal(t, tok, got)
}

func TestStart_UnreadableSessionIsCleared(t *testing.T) {
	st := &memStore{loadErr: session.ErrCorruptSession}
	svc := newService(&fakeAuthClient{}, st)

	svc.Start(context.Background())

	assert.Equal(t, StateUnauthenticated, svc.State())
	assert.Equal(t, 1, st.clears)
}

func TestStart_ExpiredTokenClearsRealStore(t *testing.T) {
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := session.NewStore(db, "test-secret")
	require.NoError(t, st.Save(ctx, tokentest.Expiring(t, "admin", -time.Hour)))

	svc := NewAuthService(&fakeAuthClient{}, st, token.NewCodec(logging.Nop()), logging.Nop())
	svc.Start(ctx)

	assert.Equal(t, StateUnauthenticated, svc.State())
	_, err = st.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestStart_DoesNotOverrideLogin(t *testing.T) {
	stale := tokentest.Expiring(t, "user", -time.Hour)
	fresh := tokentest.Expiring(t, "admin", time.Hour)
	st := &memStore{sess: &session.Session{Token: stale, ExpiresAt: time.Now().Add(time.Hour)}}
	svc := newService(&fakeAuthClient{LoginResp: &client.LoginResponse{Token: fresh}}, st)

	require.True(t, svc.Login(context.Background(), "alice", "pw").Success)
	svc.Start(context.Background())

	assert.Equal(t, StateAuthenticated, svc.State())
	got, _ := svc.Token()
	assert.Equal(t, fresh, got)
}

func TestStart_ConcurrentLoginKeepsSavedSession(t *testing.T) {
	stale := tokentest.Expiring(t, "user", -time.Hour)
	fresh := tokentest.Expiring(t, "admin", time.Hour)
	st := newGatedStore(&memStore{sess: &session.Session{Token: stale, ExpiresAt: time.Now().Add(time.Hour)}})
	svc := newService(&fakeAuthClient{LoginResp: &client.LoginResponse{Token: fresh}}, st)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		svc.Start(context.Background())
	}()
	<-st.entered

	var res Result
	go func() {
		defer wg.Done()
		res = svc.Login(context.Background(), "alice", "pw")
	}()
	time.Sleep(50 * time.Millisecond)
	close(st.release)
	wg.Wait()

	assert.Equal(t, Result{Success: true}, res)
	assert.Equal(t, StateAuthenticated, svc.State())
	got, ok := st.stored()
	require.True(t, ok)
	assert.Equal(t, fresh, got)
	assert.Equal(t, 1, st.clears)
}

func TestStart_RunsOnce(t *testing.T) {
	st := &memStore{loadErr: session.ErrCorruptSession}
	svc := newService(&fakeAuthClient{}, st)

	svc.Start(context.Background())
	svc.Start(context.Background())

	assert.Equal(t, 1, st.clears)
}

// ---- reset password ----

func TestResetPassword(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		want Result
	}{
		{"success", ResetSucceeded, nil, Result{Success: true}},
		{"200 with other text", "Old password is incorrect.", nil, Result{Error: "Old password is incorrect."}},
		{"200 with no text", "", nil, Result{Error: MsgResetFailed}},
		{"rejected with text", "", &client.RejectedError{Status: 400, Message: "User not found"}, Result{Error: "User not found"}},
		{"rejected without text", "", &client.RejectedError{Status: 500}, Result{Error: MsgResetFailed}},
		{"transport", "", client.ErrUnavailable, Result{Error: MsgServiceUnreachable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeAuthClient{ResetText: tt.text, ResetErr: tt.err}
			svc := newService(fc, &memStore{})

			got := svc.ResetPassword(context.Background(), "alice", "old", "new")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, client.ResetPasswordRequest{Username: "alice", OldPassword: "old", NewPassword: "new"}, fc.LastReset)
		})
	}
}

func TestResetPassword_RequiresAllFields(t *testing.T) {
	fc := &fakeAuthClient{}
	svc := newService(fc, &memStore{})

	assert.Equal(t, Result{Error: MsgResetFieldsRequired}, svc.ResetPassword(context.Background(), "alice", "", "new"))
	assert.Zero(t, fc.ResetCalls)
}

// ---- observation ----

func TestSubscribe_DeliversLatestState(t *testing.T) {
	tok := tokentest.Expiring(t, "user", time.Hour)
	svc := newService(&fakeAuthClient{LoginResp: &client.LoginResponse{Token: tok}}, &memStore{})

	ch, cancel := svc.Subscribe()
	defer cancel()
	assert.Equal(t, StateUnknown, <-ch)

	svc.Start(context.Background())
	require.True(t, svc.Login(context.Background(), "alice", "pw").Success)

	// Unauthenticated was overwritten before it was read.
	assert.Equal(t, StateAuthenticated, <-ch)

	svc.Logout(context.Background())
	assert.Equal(t, StateUnauthenticated, <-ch)
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	svc := newService(&fakeAuthClient{}, &memStore{})
	ch, cancel := svc.Subscribe()
	<-ch
	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	svc.Start(context.Background())
}

func TestConcurrentAccess(t *testing.T) {
	tok := tokentest.Expiring(t, "user", time.Hour)
	st := &memStore{}
	svc := newService(&fakeAuthClient{LoginResp: &client.LoginResponse{Token: tok}}, st)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				svc.Login(context.Background(), "alice", "pw")
			} else {
				svc.Logout(context.Background())
			}
			svc.CurrentUser()
			svc.IsAuthenticated()
		}(i)
	}
	go svc.Start(context.Background())
	wg.Wait()

	<-svc.Ready()
	_, hasUser := svc.CurrentUser()
	assert.Equal(t, svc.IsAuthenticated(), hasUser)
	_, stored := st.stored()
	assert.Equal(t, svc.IsAuthenticated(), stored)
}
