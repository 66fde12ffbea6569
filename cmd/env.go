package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/devpath/internal/llm"
	"github.com/abhisek/devpath/internal/progress"
	"github.com/abhisek/devpath/internal/roadmap"
	"github.com/abhisek/devpath/internal/store"
	"github.com/abhisek/devpath/internal/ui/components"
)

// env holds the dependencies one command invocation works with.
type env struct {
	store *store.Store
	svc   *progress.Service

	// checkIn holds notifications from the streak check done on open.
	checkIn []progress.Notification
}

// resolveDBPath returns the database path from --db / DEVPATH_DB / config,
// then the default XDG path.
func resolveDBPath() (string, error) {
	if conf.DBPath != "" {
		return conf.DBPath, store.EnsureDir(conf.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// openEnv opens the store, wires the generation provider when an API key
// is configured and loads the learner's progress. With checkIn set the
// daily streak is evaluated.
func openEnv(cmd *cobra.Command, checkIn bool) (*env, error) {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return nil, err
	}

	var gen progress.Generator
	cfg := conf.LLM
	if cfg.Resolve() {
		provider, err := llm.NewProvider(ctx, cfg, st.EventRepo(), logger)
		if err != nil {
			st.Close()
			return nil, err
		}
		rcfg := roadmap.DefaultConfig()
		rcfg.Timeout = cfg.Timeout
		gen = roadmap.NewClient(provider, rcfg, logger)
		logger.Debug("generation enabled", zap.String("provider", cfg.Provider), zap.String("model", provider.ModelID()))
	} else {
		logger.Debug("no LLM API key configured, generation disabled")
	}

	e := &env{
		store: st,
		svc:   progress.NewService(st.ProgressRepo(), st.ChallengeCache(), gen, logger),
	}
	if err := e.svc.Load(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if checkIn {
		e.checkIn, err = e.svc.CheckIn(ctx)
		if err != nil {
			logger.Warn("streak check failed", zap.Error(err))
		}
	}
	return e, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

func printNotifications(w io.Writer, notes []progress.Notification) {
	for _, n := range notes {
		fmt.Fprintln(w, components.RenderNotification(n))
	}
}
