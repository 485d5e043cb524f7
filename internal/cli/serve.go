package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegroup/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP adapter.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve identifier parsing and grouping over HTTP",
		Long: `Serve starts an HTTP/JSON server with these routes:

  GET  /health
  POST /v1/identifiers/parse   {"text": "type::name"}
  POST /v1/pairs/parse         {"text": "type::name$type::name"}
  POST /v1/pairs/other         {"pair": "...", "id": "..."}
  POST /v1/groups              {"pairs": [...], "sorted": false}

The listen address defaults to [server].addr from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(server.Config{
				Addr:   addr,
				Runner: runner,
				Logger: c.Logger,
			})
			printInfo("Listening on %s", StyleLink.Render("http://"+srv.Addr()))
			printDetail("Cache backend: %s", c.Config.Cache.Backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8420)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
