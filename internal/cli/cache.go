package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treematch/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
		Long: `Manage the local result cache.

These commands operate on the file backend. Redis and MongoDB entries
expire on their own after the configured TTL.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// openFileCache opens the file cache without creating it when absent.
func (c *CLI) openFileCache() (*cache.FileCache, bool, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, false, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, false, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, false, err
	}
	return fc, true, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if err != nil {
				return err
			}
			if !ok {
				printInfo("Cache is empty")
				return nil
			}
			entries, _, err := fc.Stats()
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", entries)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache backend, location and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			printKeyValue("Backend", cfg.Backend)
			printKeyValue("TTL", cfg.TTL.String())
			switch cfg.Backend {
			case backendRedis:
				printKeyValue("URL", cfg.RedisURL)
				return nil
			case backendMongo:
				printKeyValue("URI", cfg.MongoURI)
				return nil
			case backendNone:
				return nil
			}

			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			printKeyValue("Directory", dir)
			fc, ok, err := c.openFileCache()
			if err != nil {
				return err
			}
			if !ok {
				printKeyValue("Entries", "0")
				return nil
			}
			entries, size, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Entries", strconv.Itoa(entries))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
