package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/supabase-go"
)

func TestSupabase_SignInRequiresPassword(t *testing.T) {
	// Credential checks happen before any network call, so a nil client is never touched.
	p := NewSupabase(nil, NewFileStore(t.TempDir()))
	_, err := p.SignIn(context.Background(), "ada@example.com", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSupabase_RestoreWithoutSavedSession(t *testing.T) {
	p := NewSupabase(nil, NewFileStore(t.TempDir()))
	_, ok, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSupabase_SignOutWhenSignedOutOnlyClearsLocalState(t *testing.T) {
	p := NewSupabase(nil, NewFileStore(t.TempDir()))
	var kinds []EventKind
	p.OnAuthStateChange(func(ev Event) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, p.SignOut(context.Background()))
	assert.Equal(t, []EventKind{SignedOut}, kinds)
}

func TestSupabase_RefreshWhileSignedOutIsNoop(t *testing.T) {
	p := NewSupabase(nil, NewFileStore(t.TempDir()))
	require.NoError(t, p.Refresh(context.Background()))
}

// fakeGoTrue answers the token endpoint; every grant returns the next numbered token pair.
type fakeGoTrue struct {
	mu        sync.Mutex
	grants    []string
	expiresIn time.Duration
	failNext  bool
}

func (g *fakeGoTrue) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		g.mu.Lock()
		defer g.mu.Unlock()
		grant := r.URL.Query().Get("grant_type")
		g.grants = append(g.grants, grant)
		if g.failNext {
			g.failNext = false
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		n := len(g.grants)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  fmt.Sprintf("access-%d", n),
			"refresh_token": fmt.Sprintf("refresh-%d", n),
			"token_type":    "bearer",
			"expires_in":    int(g.expiresIn.Seconds()),
			"expires_at":    time.Now().Add(g.expiresIn).Unix(),
			"user": map[string]any{
				"id":    "2f1d3c4b-5a69-4788-9a0b-1c2d3e4f5a6b",
				"email": "ada@example.com",
			},
		})
	})
}

func (g *fakeGoTrue) grantLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.grants...)
}

func newSupabaseAgainst(t *testing.T, g *fakeGoTrue) (*Supabase, FileStore) {
	t.Helper()
	srv := httptest.NewServer(g.handler(t))
	t.Cleanup(srv.Close)
	client, err := supabase.NewClient(srv.URL, "anon", nil)
	require.NoError(t, err)
	file := NewFileStore(t.TempDir())
	return NewSupabase(client, file), file
}

func TestSupabase_RefreshRotatesTokenNearExpiry(t *testing.T) {
	g := &fakeGoTrue{expiresIn: 30 * time.Second}
	p, file := newSupabaseAgainst(t, g)

	var kinds []EventKind
	_, err := p.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	p.OnAuthStateChange(func(ev Event) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, []string{"password", "refresh_token"}, g.grantLog())

	rec, err := file.load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "access-2", rec.AccessToken)
	assert.Equal(t, "refresh-2", rec.RefreshToken)
	assert.Equal(t, "ada@example.com", rec.User.Email)
	assert.Empty(t, kinds, "a token rotation is not a sign-in")
}

func TestSupabase_RefreshSkipsFreshToken(t *testing.T) {
	g := &fakeGoTrue{expiresIn: time.Hour}
	p, _ := newSupabaseAgainst(t, g)
	_, err := p.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, []string{"password"}, g.grantLog())

	// An hour later the same token is inside the margin.
	p.now = func() time.Time { return time.Now().Add(time.Hour) }
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, []string{"password", "refresh_token"}, g.grantLog())
}

func TestSupabase_RefreshFailureKeepsSavedSession(t *testing.T) {
	g := &fakeGoTrue{expiresIn: 30 * time.Second}
	p, file := newSupabaseAgainst(t, g)
	_, err := p.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)

	g.mu.Lock()
	g.failNext = true
	g.mu.Unlock()
	err = p.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh session")

	rec, err := file.load()
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "refresh-1", rec.RefreshToken)
	_, ok := p.CurrentUser()
	assert.True(t, ok)
}
