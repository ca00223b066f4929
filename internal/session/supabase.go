package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// Supabase authenticates against the project's GoTrue API.
//
// The client is shared with store.SupabaseBackend: signing in (or restoring) a session
// installs the access token on the client so row-store calls run as the user.
type Supabase struct {
	hub
	client *supabase.Client
	file   FileStore
	now    func() time.Time

	tokMu sync.Mutex
	tok   *record
}

var _ Provider = (*Supabase)(nil)

// RefreshMargin is how close to expiry an access token may get before Refresh rotates it.
const RefreshMargin = 2 * time.Minute

func NewSupabase(client *supabase.Client, file FileStore) *Supabase {
	return &Supabase{client: client, file: file, now: time.Now}
}

func (p *Supabase) SignIn(ctx context.Context, email, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	email, err := checkCredentials(email, password, true)
	if err != nil {
		return User{}, err
	}
	sess, err := p.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return User{}, fmt.Errorf("sign in: %w", err)
	}
	return p.adopt(sess)
}

func (p *Supabase) SignOut(ctx context.Context) error {
	// Revoke remotely when possible; the local session is dropped regardless.
	var remoteErr error
	if _, ok := p.CurrentUser(); ok {
		remoteErr = p.client.Auth.Logout()
	}
	fileErr := p.file.clear()
	p.setToken(nil)
	p.set(nil)
	if remoteErr != nil {
		return fmt.Errorf("sign out: %w", remoteErr)
	}
	return fileErr
}

func (p *Supabase) Restore(ctx context.Context) (User, bool, error) {
	if err := ctx.Err(); err != nil {
		return User{}, false, err
	}
	rec, err := p.file.load()
	if err != nil || rec == nil {
		return User{}, false, err
	}

	// Saved access token still valid?
	if rec.AccessToken != "" {
		if resp, err := p.client.Auth.WithToken(rec.AccessToken).GetUser(); err == nil && resp != nil {
			sess := types.Session{
				AccessToken:  rec.AccessToken,
				RefreshToken: rec.RefreshToken,
				ExpiresAt:    rec.ExpiresAt,
				User:         resp.User,
			}
			p.client.UpdateAuthSession(sess)
			u := userFromSession(sess)
			p.setToken(&record{User: u, AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken, ExpiresAt: sess.ExpiresAt})
			p.set(&u)
			return u, true, nil
		}
	}

	if rec.RefreshToken == "" {
		_ = p.file.clear()
		return User{}, false, nil
	}
	sess, err := p.client.RefreshToken(rec.RefreshToken)
	if err != nil {
		// Expired or revoked: the user has to sign in again.
		_ = p.file.clear()
		return User{}, false, nil
	}
	u, err := p.adopt(sess)
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

// Refresh rotates the access token when it expires within RefreshMargin and saves
// the new tokens. It is a no-op while signed out or while the token is fresh.
func (p *Supabase) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.tokMu.Lock()
	defer p.tokMu.Unlock()
	if p.tok == nil || p.tok.RefreshToken == "" || p.tok.ExpiresAt == 0 {
		return nil
	}
	if p.now().Add(RefreshMargin).Unix() < p.tok.ExpiresAt {
		return nil
	}
	sess, err := p.client.RefreshToken(p.tok.RefreshToken)
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	rec := tokenRecord(p.tok.User, sess)
	if err := p.file.save(rec); err != nil {
		return err
	}
	p.tok = &rec
	return nil
}

func (p *Supabase) adopt(sess types.Session) (User, error) {
	u := userFromSession(sess)
	rec := tokenRecord(u, sess)
	if err := p.file.save(rec); err != nil {
		return User{}, err
	}
	p.setToken(&rec)
	p.set(&u)
	return u, nil
}

func (p *Supabase) setToken(rec *record) {
	p.tokMu.Lock()
	defer p.tokMu.Unlock()
	p.tok = rec
}

// tokenRecord keeps the signed-in user; a refresh response may omit it.
func tokenRecord(u User, sess types.Session) record {
	expiresAt := sess.ExpiresAt
	if expiresAt == 0 && sess.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second).Unix()
	}
	return record{
		User:         u,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

func userFromSession(sess types.Session) User {
	return User{ID: sess.User.ID.String(), Email: sess.User.Email}
}
