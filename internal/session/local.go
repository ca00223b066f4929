package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Local is the session provider used with the sqlite backend: a single-user identity
// derived from the email address. There is no credential check; the database file
// belongs to whoever runs the program.
type Local struct {
	hub
	file FileStore
}

var _ Provider = (*Local)(nil)

func NewLocal(file FileStore) *Local {
	return &Local{file: file}
}

// LocalUserID is the stable id a given email maps to.
func LocalUserID(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("ideapad:local:"+email)).String()
}

func (p *Local) SignIn(ctx context.Context, email, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	email, err := checkCredentials(email, password, false)
	if err != nil {
		return User{}, err
	}
	u := User{ID: LocalUserID(email), Email: strings.ToLower(email)}
	if err := p.file.save(record{User: u}); err != nil {
		return User{}, err
	}
	p.set(&u)
	return u, nil
}

func (p *Local) SignOut(ctx context.Context) error {
	err := p.file.clear()
	p.set(nil)
	return err
}

func (p *Local) Restore(ctx context.Context) (User, bool, error) {
	rec, err := p.file.load()
	if err != nil {
		return User{}, false, err
	}
	if rec == nil {
		return User{}, false, nil
	}
	u := rec.User
	p.set(&u)
	return u, true, nil
}
