package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTUIState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Store{Dir: dir}

	// Missing file => default state.
	st0, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if st0 == nil || st0.Version != 1 {
		t.Fatalf("expected default Version=1; got %#v", st0)
	}

	want := &TUIState{Version: 1, View: "folders"}
	if err := s.SaveTUIState(want); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}

	got, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState (after save): %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestTUIState_CorruptFileIsTreatedAsMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tuiStateFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s := Store{Dir: dir}
	if v := s.LoadView(); v != "" {
		t.Fatalf("expected empty view for corrupt state; got %q", v)
	}
}

func TestSaveView_CreatesDirAndPersists(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "state")
	s := Store{Dir: dir}
	if err := s.SaveView("ideas"); err != nil {
		t.Fatalf("SaveView: %v", err)
	}
	if err := s.SaveView("idea-detail"); err != nil {
		t.Fatalf("SaveView: %v", err)
	}
	if got := s.LoadView(); got != "idea-detail" {
		t.Fatalf("expected last saved view; got %q", got)
	}
}

func TestSaveView_EmptyDirIsNoop(t *testing.T) {
	t.Parallel()

	s := Store{}
	if err := s.SaveView("home"); err != nil {
		t.Fatalf("expected no error without a dir; got %v", err)
	}
	if got := s.LoadView(); got != "" {
		t.Fatalf("expected empty view; got %q", got)
	}
}
