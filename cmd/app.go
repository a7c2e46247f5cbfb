package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linkverse/linkverse/internal/cache"
	"github.com/linkverse/linkverse/internal/config"
	"github.com/linkverse/linkverse/internal/enrich"
	"github.com/linkverse/linkverse/internal/gateway"
	"github.com/linkverse/linkverse/internal/store"
	"github.com/linkverse/linkverse/internal/tui"
)

// env wires config, logging, the gateway client, the offline cache, and the
// shared store. Every command builds one and closes it when done.
type env struct {
	cfg     *config.Config
	log     *logrus.Logger
	gw      *gateway.Client
	cache   *cache.Cache
	store   *store.Store
	session config.Session
}

func newEnv() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := newLogger()

	gw := gateway.New(cfg.GatewayURL, cfg.AnonKey, log)
	sess, err := config.LoadSession(config.SessionPath())
	if err != nil {
		log.WithError(err).Warn("could not read stored session")
	}
	if sess.AccessToken != "" {
		gw.SetSession(sess.AccessToken, sess.UserID)
	}

	db, err := cache.Open(config.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	st := store.New(store.Options{
		Fetcher: gw,
		Window:  cfg.CacheWindow(),
		Persist: db,
		Log:     log,
	})

	return &env{cfg: cfg, log: log, gw: gw, cache: db, store: st, session: sess}, nil
}

func (e *env) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

func (e *env) requireAuth() error {
	if !e.gw.Authenticated() {
		return fmt.Errorf("not signed in; run `linkverse login <email>` first")
	}
	return nil
}

// analyzer returns the configured metadata analyzer, or nil when enrichment
// is disabled or not configured.
func (e *env) analyzer() *enrich.Analyzer {
	if !e.cfg.EnrichEnabled() || !e.cfg.AutoAnalyzeEnabled() {
		return nil
	}
	a, err := enrich.New(e.cfg.Enrich, e.cfg.EnrichKey())
	if err != nil {
		e.log.WithError(err).Warn("enrichment disabled")
		return nil
	}
	return a
}

// newLogger writes to the state-dir log file so it never interleaves with
// command output or the TUI. Falls back to discarding when the file cannot
// be opened.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			log.SetOutput(f)
			return log
		}
	}
	log.SetOutput(io.Discard)
	return log
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.requireAuth(); err != nil {
		return err
	}

	return tui.Run(tui.RunOpts{
		Store:    e.store,
		Gateway:  e.gw,
		Analyzer: e.analyzer(),
		Log:      e.log,
		Email:    e.session.Email,
	})
}
