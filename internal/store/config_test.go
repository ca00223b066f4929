package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("IDEAPAD_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("IDEAPAD_CONFIG_DIR", t.TempDir())

	want := &Config{
		Backend:         BackendSupabase,
		SupabaseURL:     "https://example.supabase.co",
		SupabaseAnonKey: "anon",
		LogLevel:        "debug",
	}
	require.NoError(t, SaveConfig(want))

	got, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfigResolve_DefaultsToSQLiteWithoutProjectURL(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	require.NoError(t, cfg.Resolve(dir))

	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "ideapad.sqlite"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join(dir, "ideapad.log"), cfg.LogFile)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfigResolve_InfersSupabaseFromURL(t *testing.T) {
	cfg := &Config{SupabaseURL: "https://example.supabase.co", SupabaseAnonKey: "anon"}
	require.NoError(t, cfg.Resolve(t.TempDir()))
	assert.Equal(t, BackendSupabase, cfg.Backend)
}

func TestConfigResolve_RejectsInvalidConfig(t *testing.T) {
	cases := map[string]Config{
		"unknown backend":     {Backend: "dynamo"},
		"supabase without url": {Backend: BackendSupabase, SupabaseAnonKey: "anon"},
		"supabase without key": {Backend: BackendSupabase, SupabaseURL: "https://example.supabase.co"},
		"supabase bad url":     {Backend: BackendSupabase, SupabaseURL: "not a url", SupabaseAnonKey: "anon"},
		"bad log level":        {LogLevel: "loud"},
	}
	for name, cfg := range cases {
		cfg := cfg
		t.Run(name, func(t *testing.T) {
			err := cfg.Resolve(t.TempDir())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestConfigApplyEnv_OverridesFileValues(t *testing.T) {
	env := map[string]string{
		"IDEAPAD_BACKEND":   "supabase",
		"SUPABASE_URL":      "https://env.supabase.co",
		"SUPABASE_ANON_KEY": "env-key",
		"IDEAPAD_LOG_LEVEL": "warn",
	}
	cfg := &Config{Backend: BackendSQLite, LogLevel: "debug", SQLitePath: "/tmp/keep.sqlite"}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "supabase", cfg.Backend)
	assert.Equal(t, "https://env.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "env-key", cfg.SupabaseAnonKey)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/tmp/keep.sqlite", cfg.SQLitePath)
}

func TestConfigSet_KnownKeysAndClear(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Set("backend", " Supabase "))
	require.NoError(t, cfg.Set("supabaseUrl", "https://example.supabase.co"))
	require.NoError(t, cfg.Set("supabaseAnonKey", "anon"))
	assert.Equal(t, BackendSupabase, cfg.Backend)
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)

	require.NoError(t, cfg.Set("backend", ""))
	assert.Empty(t, cfg.Backend)

	err := cfg.Set("workspace", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config key")
}
