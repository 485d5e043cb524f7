package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegroup/pkg/buildinfo"
	"github.com/matzehuels/nodegroup/pkg/cache"
	"github.com/matzehuels/nodegroup/pkg/config"
	ngerrors "github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/ident"
	ngio "github.com/matzehuels/nodegroup/pkg/io"
	"github.com/matzehuels/nodegroup/pkg/observability"
	"github.com/matzehuels/nodegroup/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// ConfigPath is the --config flag; empty selects the default location.
	ConfigPath string

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "nodegroup groups typed identifiers into connected components",
		Long: `nodegroup reads pairs of typed identifiers ("type::name$type::name") and
partitions every identifier into groups: two identifiers share a group exactly
when a chain of pairs connects them.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.ConfigPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			registerLogHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/nodegroup/config.toml)")

	root.AddCommand(c.groupCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// An unreachable shared backend degrades to no caching with a warning.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cacheCfg := c.Config.Cache
	if noCache {
		cacheCfg.Backend = config.BackendNone
	}

	store, keyer, err := cacheCfg.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cacheCfg.Backend, "err", err)
		store, keyer = cache.NewNullCache(), cache.NewDefaultKeyer()
	}

	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.TTL = cacheCfg.TTL.Duration
	return runner, nil
}

// =============================================================================
// Input Helpers
// =============================================================================

// readPairs loads pairs from path, or from stdin when path is "-".
// The format follows the file extension; stdin is read as text unless
// format overrides it.
func readPairs(path string, format ngio.Format) ([]ident.Pair, error) {
	if path == "-" {
		if format == "" {
			format = ngio.FormatText
		}
		return ngio.Read(os.Stdin, format)
	}
	if format == "" {
		return ngio.ImportPairs(path)
	}
	if err := ngerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ngerrors.Wrap(ngerrors.ErrCodeFileNotFound, err, "pair file %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ngio.Read(f, format)
}

// registerLogHooks routes observability events to the debug log.
func registerLogHooks(logger *log.Logger) {
	h := &logHooks{logger: logger}
	observability.SetGroupHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
}
