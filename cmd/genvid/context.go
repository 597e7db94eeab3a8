package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"genvid/internal/api"
	"genvid/internal/config"
	"genvid/internal/logging"
	"genvid/internal/prefs"
	"genvid/internal/session"
	"genvid/internal/state"
)

// refreshLeeway is how close to expiry an access token may get before the
// client proactively rotates it.
const refreshLeeway = 2 * time.Minute

var errNotLoggedIn = errors.New("not logged in; run `genvid login` first")

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// env bundles everything a command needs: config, the open state store, the
// hydrated session, preferences, and an API client carrying the session
// token. Close releases the state store and its advisory lock.
type env struct {
	cfg     *config.Config
	store   *state.Store
	session *session.Store
	prefs   *prefs.Store
	client  *api.Client
	logger  *slog.Logger
}

func (e *env) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}

// withEnv opens the environment, runs fn, and tears down afterwards. The
// session is hydrated and a near-expiry access token is rotated before fn
// runs.
func (c *commandContext) withEnv(ctx context.Context, fn func(*env) error) error {
	e, err := c.openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func (c *commandContext) openEnv(ctx context.Context) (*env, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := c.ensureLogger()

	store, err := state.Open(cfg.Paths.StateDir)
	if err != nil {
		if errors.Is(err, state.ErrLocked) {
			return nil, fmt.Errorf("another genvid process is using %s", cfg.Paths.StateDir)
		}
		return nil, err
	}

	sess := session.New(store, logger)
	if err := sess.Hydrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	preferences := prefs.New(store)
	if err := preferences.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}

	client := api.New(cfg, logger)
	e := &env{
		cfg:     cfg,
		store:   store,
		session: sess,
		prefs:   preferences,
		client:  client,
		logger:  logger,
	}
	if token := sess.Token(); token != "" {
		client.SetToken(token)
		if err := e.refreshIfNeeded(ctx); err != nil {
			logger.Warn("token refresh failed", logging.Error(err))
		}
	}
	return e, nil
}

// refreshIfNeeded rotates the access token when it is about to expire and a
// refresh token is on hand. Opaque tokens are left alone.
func (e *env) refreshIfNeeded(ctx context.Context) error {
	if !e.session.NeedsRefresh(refreshLeeway) {
		return nil
	}
	refreshToken := e.session.RefreshToken()
	if refreshToken == "" {
		return nil
	}
	auth, err := e.client.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	next := auth.RefreshToken
	if next == "" {
		next = refreshToken
	}
	if err := e.session.SetTokens(ctx, auth.AccessToken, next); err != nil {
		return err
	}
	e.client.SetToken(auth.AccessToken)
	return nil
}

// requireAuth fails fast for commands that need a session.
func (e *env) requireAuth() error {
	if !e.session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}
