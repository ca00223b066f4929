package cli

import (
	"context"
	"errors"
	"fmt"

	"ideapad/internal/logging"
	"ideapad/internal/mutate"
	"ideapad/internal/pad"
	"ideapad/internal/session"
	"ideapad/internal/store"

	"go.uber.org/zap"
)

// env is everything a command needs, wired from config.
type env struct {
	cfg     *store.Config
	dir     store.Store
	log     *zap.Logger
	backend store.Backend
	auth    session.Provider
	orch    *mutate.Orchestrator
	state   *pad.State

	closers []func() error
}

func loadEnv(ctx context.Context, app *App) (*env, error) {
	dir, err := store.Open()
	if err != nil {
		return nil, err
	}
	if err := dir.Ensure(); err != nil {
		return nil, err
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(nil)
	if app.Backend != "" {
		cfg.Backend = app.Backend
	}
	if app.LogLevel != "" {
		cfg.LogLevel = app.LogLevel
	}
	if err := cfg.Resolve(dir.Dir); err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, dir: dir, log: log}
	e.closers = append(e.closers, func() error {
		_ = log.Sync()
		return nil
	})

	sessions := session.NewFileStore(dir.Dir)
	var refresher mutate.Refresher
	switch cfg.Backend {
	case store.BackendSupabase:
		client, err := store.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		if err != nil {
			e.Close()
			return nil, err
		}
		e.backend = store.NewSupabaseBackend(client)
		auth := session.NewSupabase(client, sessions)
		e.auth = auth
		refresher = auth
	default:
		db, err := store.OpenSQLiteBackend(ctx, cfg.SQLitePath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open %s: %w", cfg.SQLitePath, err)
		}
		e.backend = db
		e.auth = session.NewLocal(sessions)
		e.closers = append(e.closers, db.Close)
	}
	log.Debug("environment ready", zap.String("backend", cfg.Backend), zap.String("dir", dir.Dir))

	if _, _, err := e.auth.Restore(ctx); err != nil {
		log.Warn("restore session failed", zap.Error(err))
	}
	e.orch = mutate.New(e.backend, log)
	if refresher != nil {
		e.orch.UseRefresher(refresher)
	}
	e.state = pad.NewState(dir.LoadView(), dir, log)
	if u, ok := e.auth.CurrentUser(); ok {
		e.state.UserID = u.ID
	}
	return e, nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
	e.closers = nil
}

var errNotSignedIn = errors.New("not signed in; run `ideapad login --email <email>` first")

// loadUserEnv is loadEnv for commands that act on the signed-in user's records;
// the cache is loaded before it returns.
func loadUserEnv(ctx context.Context, app *App) (*env, error) {
	e, err := loadEnv(ctx, app)
	if err != nil {
		return nil, err
	}
	if e.state.UserID == "" {
		e.Close()
		return nil, errNotSignedIn
	}
	if _, err := e.orch.Exec(ctx, e.state, e.orch.Load(e.state)); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// exec runs op to completion. A refused op becomes a usage error naming what is missing.
func (e *env) exec(ctx context.Context, op *mutate.Op, missing string) (mutate.Result, error) {
	res, err := e.orch.Exec(ctx, e.state, op)
	if errors.Is(err, mutate.ErrRefused) {
		return res, errUsage(missing + " is required")
	}
	return res, err
}
