package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treematch/pkg/buildinfo"
	"github.com/matzehuels/treematch/pkg/cache"
	"github.com/matzehuels/treematch/pkg/errors"
	"github.com/matzehuels/treematch/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "treematch"
)

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
	Config Config

	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
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
		Short: "Treematch finds maximum common subtrees of ordered trees",
		Long: `Treematch compares two ordered trees (or forests) and reports their largest
common embedding or isomorphism, computed over balanced-sequence encodings.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/treematch/config.toml)")

	root.AddCommand(c.compareCommand(pipeline.ModeEmbedding))
	root.AddCommand(c.compareCommand(pipeline.ModeIsomorphism))
	root.AddCommand(c.seqCommand())
	root.AddCommand(c.pathsCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.decodeCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return nil
		}
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config", "path", path, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if p := c.Config.Cache.Prefix; p != "" {
		keyer = cache.NewScopedKeyer(nil, p)
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == backendNone {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case backendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	case backendMongo:
		return cache.NewMongoCache(ctx, cfg.MongoURI, cache.DefaultMongoDatabase, cache.DefaultMongoCollection)
	}
	dir, err := c.cacheDir()
	if err != nil {
		printWarning("Caching disabled: %v", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the configured one, or the XDG
// default (~/.cache/treematch/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

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

// =============================================================================
// Options Helpers
// =============================================================================

// applyConfig fills options the user did not set on the command line from
// the config file.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *pipeline.Options) {
	if !cmd.Flags().Changed("strategy") && c.Config.Strategy != "" {
		opts.Strategy = c.Config.Strategy
	}
	if !cmd.Flags().Changed("token-kind") && c.Config.TokenKind != "" {
		opts.TokenKind = c.Config.TokenKind
	}
	if !cmd.Flags().Changed("affinity") && c.Config.Affinity != "" {
		opts.Affinity = c.Config.Affinity
	}
}

// solverFlags registers the flags shared by every comparison command.
func solverFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Strategy, "strategy", "s", "", "solver strategy: auto (default), iter, recurse, iter-native")
	cmd.Flags().StringVar(&opts.TokenKind, "token-kind", "", "sequence encoding: auto (default), char, number")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatText}
	}
	return strings.Split(s, ",")
}

// readLines reads non-empty lines from a file, or from stdin for "-".
func readLines(path string) ([]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimRight(l, "\r"); strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines, nil
}
