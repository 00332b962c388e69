// Package cli implements the pedigraph command-line interface.
//
// Every analysis command reads a columnar JSON pedigree, runs the selected
// analyses through [pipeline.Runner] and prints either styled text or, with
// --json, the machine-readable result.
//
// # Commands
//
//   - qc: record counts and validation anomalies
//   - chronology: birth-order violations
//   - cycles: ancestry cycles
//   - inbreeding: inbreeding coefficients (optionally browsed interactively)
//   - lineage: deepest ancestry and the depth distribution
//   - descendants: descendant counts per sire or dam
//   - report: all of the above
//   - cache: manage the result cache
//
// # Configuration
//
// Defaults can be set in a TOML file, $XDG_CONFIG_HOME/pedigraph/config.toml
// unless --config names another. Flags override file values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigraph/pkg/buildinfo"
	"github.com/matzehuels/pedigraph/pkg/cache"
	"github.com/matzehuels/pedigraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pedigraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out    io.Writer // results
	errOut io.Writer // logs and spinners
}

// New creates a new CLI instance that logs to w and prints results to
// standard output.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command results to w.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pedigraph analyzes animal and plant pedigrees",
		Long: `Pedigraph validates pedigrees and computes the quantities breeders rely on:
inbreeding coefficients, lineage depth and descendant counts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.qcCommand())
	root.AddCommand(c.chronologyCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.inbreedingCommand())
	root.AddCommand(c.lineageCommand())
	root.AddCommand(c.descendantsCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg CacheConfig, noCache bool) *pipeline.Runner {
	store := c.newCache(ctx, cfg, noCache)
	var keyer cache.Keyer
	if cfg.Scope != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Scope)
	}
	r := pipeline.NewRunner(store, keyer, c.Logger)
	r.TTL = cfg.ttl()
	return r
}

// newCache opens the configured backend. An unusable backend degrades to
// no caching with a warning.
func (c *CLI) newCache(ctx context.Context, cfg CacheConfig, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	switch cfg.Backend {
	case backendNone:
		return cache.NewNullCache()
	case backendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			c.Logger.Warn("redis cache disabled", "err", err)
			return cache.NewNullCache()
		}
		return rc
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pedigraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configPath returns the default config file path (~/.config/pedigraph/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
