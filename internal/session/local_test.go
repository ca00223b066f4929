package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SignInEmitsEventAndPersists(t *testing.T) {
	dir := t.TempDir()
	p := NewLocal(NewFileStore(dir))

	var events []Event
	p.OnAuthStateChange(func(ev Event) { events = append(events, ev) })

	u, err := p.SignIn(context.Background(), "  Ada@Example.com ", "")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, LocalUserID("ada@example.com"), u.ID)

	cur, ok := p.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u, cur)

	require.Len(t, events, 1)
	assert.Equal(t, SignedIn, events[0].Kind)
	assert.Equal(t, u, events[0].User)

	info, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLocal_UserIDIsStablePerEmail(t *testing.T) {
	assert.Equal(t, LocalUserID("a@b.co"), LocalUserID(" A@B.co "))
	assert.NotEqual(t, LocalUserID("a@b.co"), LocalUserID("c@b.co"))
}

func TestLocal_RejectsInvalidEmail(t *testing.T) {
	p := NewLocal(NewFileStore(t.TempDir()))
	for _, email := range []string{"", "   ", "not-an-email"} {
		_, err := p.SignIn(context.Background(), email, "pw")
		require.ErrorIs(t, err, ErrInvalidCredentials, "email %q", email)
	}
	_, ok := p.CurrentUser()
	assert.False(t, ok)
}

func TestLocal_RestoreAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first := NewLocal(NewFileStore(dir))
	u, err := first.SignIn(context.Background(), "ada@example.com", "")
	require.NoError(t, err)

	second := NewLocal(NewFileStore(dir))
	var got []Event
	second.OnAuthStateChange(func(ev Event) { got = append(got, ev) })

	restored, ok, err := second.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u, restored)
	require.Len(t, got, 1)
	assert.Equal(t, SignedIn, got[0].Kind)
}

func TestLocal_RestoreWithoutSession(t *testing.T) {
	p := NewLocal(NewFileStore(t.TempDir()))
	_, ok, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_RestoreIgnoresCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{nope"), 0o600))

	p := NewLocal(NewFileStore(dir))
	_, ok, err := p.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_SignOutClearsSession(t *testing.T) {
	dir := t.TempDir()
	p := NewLocal(NewFileStore(dir))
	_, err := p.SignIn(context.Background(), "ada@example.com", "")
	require.NoError(t, err)

	var kinds []EventKind
	unsubscribe := p.OnAuthStateChange(func(ev Event) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, p.SignOut(context.Background()))
	_, ok := p.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, []EventKind{SignedOut}, kinds)

	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(err))

	unsubscribe()
	_, err = p.SignIn(context.Background(), "ada@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, []EventKind{SignedOut}, kinds, "unsubscribed handler must not fire")
}

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "SIGNED_IN", SignedIn.String())
	assert.Equal(t, "SIGNED_OUT", SignedOut.String())
	assert.Equal(t, "UNKNOWN", EventKind(0).String())
}
