package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treematch/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg     server.Config
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve comparisons over HTTP",
		Long: `Serve comparisons over HTTP.

Routes:
  POST /v1/embedding     compare two trees (embedding)
  POST /v1/isomorphism   compare two trees (isomorphism)
  POST /v1/paths         compare two path lists
  GET  /healthz          liveness and version
  GET  /metrics          Prometheus metrics

The server uses the cache backend from the config file and stops gracefully
on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				cfg.Addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, cfg)
			printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(cfg.Addr)))
			printDetail("cache: %s", c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&cfg.MaxNodes, "max-nodes", server.DefaultMaxNodes, "maximum nodes per tree (negative disables the limit)")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayAddr turns a listen address like ":8080" into a browsable host.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
