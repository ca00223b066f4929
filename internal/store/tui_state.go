package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState is the UI state restored on relaunch. Missing or corrupt data reads as the default.
type TUIState struct {
	Version int `json:"version"`

	// View is one of: home|ideas|folders|idea-detail
	View string `json:"view,omitempty"`
}

func (s Store) tuiStatePath() string {
	return filepath.Join(s.Dir, tuiStateFileName)
}

func (s Store) LoadTUIState() (*TUIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(s.tuiStatePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

func (s Store) SaveTUIState(st *TUIState) error {
	if st == nil {
		return nil
	}
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, tuiStateFileName+".*.tmp", s.tuiStatePath(), b, 0o644)
}

// LoadView returns the last persisted view name ("" when unknown).
func (s Store) LoadView() string {
	st, err := s.LoadTUIState()
	if err != nil || st == nil {
		return ""
	}
	return strings.TrimSpace(st.View)
}

// SaveView persists the current view name.
func (s Store) SaveView(view string) error {
	st, err := s.LoadTUIState()
	if err != nil || st == nil {
		st = &TUIState{Version: 1}
	}
	st.View = strings.TrimSpace(view)
	return s.SaveTUIState(st)
}
