package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"showtool/internal/config"
	"showtool/internal/discovery"
	"showtool/internal/episode"
	"showtool/internal/journal"
	"showtool/internal/logging"
	"showtool/internal/rename"
	"showtool/internal/services"
	"showtool/internal/session"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
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

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

// ensureLogger builds the file logger, adding stderr when --verbose is set so
// stdout stays reserved for tables.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		var extra []string
		if c.verbose() {
			extra = append(extra, "stderr")
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg, extra...)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openJournal() (*journal.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "journal", "open", cfg.JournalPath(), err)
	}
	return store, nil
}

func (c *commandContext) newExecutor(logger *slog.Logger, store *journal.Store) (*rename.Executor, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := []rename.Option{
		rename.WithLogger(logger),
		rename.WithRollback(cfg.Rename.RollbackOnFailure),
		rename.WithLock(cfg.LockPath(), time.Duration(cfg.Rename.LockTimeoutSeconds)*time.Second),
	}
	if store != nil {
		opts = append(opts, rename.WithRecorder(store))
	}
	return rename.NewExecutor(opts...), nil
}

// workspace bundles what an episode command needs. close must be called.
type workspace struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *journal.Store
	session *session.Session
}

func (w *workspace) close() {
	if w.store != nil {
		_ = w.store.Close()
	}
}

// openWorkspace expands inputs, opens the journal and builds a session.
func (c *commandContext) openWorkspace(ctx context.Context, inputs, placeholders []string) (*workspace, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	less, err := episode.LessFuncFor(cfg.Ordering.Relation)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "ordering", "resolve", "", err)
	}
	logger.Debug("ordering resolved",
		logging.Args(logging.DecisionAttrs("ordering_relation", cfg.Ordering.Relation, "configured")...)...)
	gaps, err := parsePlaceholders(placeholders)
	if err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		inputs = []string{"."}
	}
	paths, err := discovery.Expand(inputs, cfg.Library)
	if err != nil {
		return nil, err
	}

	store, err := c.openJournal()
	if err != nil {
		return nil, err
	}
	exec, err := c.newExecutor(logger, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sess, err := session.Open(ctx, paths, session.Options{
		Ordering:    less,
		Store:       store,
		Executor:    exec,
		PlanOptions: rename.PlanOptions{SuffixLength: cfg.Rename.SuffixLength},
		Logger:      logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	for _, gap := range gaps {
		if err := sess.AddPlaceholder(gap[0], gap[1]); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	return &workspace{cfg: cfg, logger: logger, store: store, session: sess}, nil
}

// parsePlaceholders reads SEASON:EPISODE pairs.
func parsePlaceholders(values []string) ([][2]int, error) {
	out := make([][2]int, 0, len(values))
	for _, value := range values {
		seasonText, episodeText, ok := strings.Cut(strings.TrimSpace(value), ":")
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "cli", "placeholder", fmt.Sprintf("%q is not SEASON:EPISODE", value), nil)
		}
		season, err := strconv.Atoi(strings.TrimSpace(seasonText))
		if err != nil || season < 0 {
			return nil, services.Wrap(services.ErrValidation, "cli", "placeholder", fmt.Sprintf("invalid season in %q", value), nil)
		}
		ep, err := strconv.Atoi(strings.TrimSpace(episodeText))
		if err != nil || ep < 1 {
			return nil, services.Wrap(services.ErrValidation, "cli", "placeholder", fmt.Sprintf("invalid episode in %q", value), nil)
		}
		out = append(out, [2]int{season, ep})
	}
	return out, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
