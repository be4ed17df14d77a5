package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/cache"
	"github.com/san-kum/traysim/internal/server"
)

var addr string

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := cli.settings
			if !cmd.Flags().Changed("addr") {
				addr = s.Addr
			}

			if err := cli.store.Init(); err != nil {
				return err
			}
			runner, err := cli.runner()
			if err != nil {
				return err
			}

			var c *cache.Cache
			if s.RedisURL != "" {
				c, err = cache.Connect(cmd.Context(), s.RedisURL, s.CacheTTL)
				if err != nil {
					// serve uncached rather than not at all
					cli.log.Warn("redis unavailable, caching disabled", zap.Error(err))
					c = nil
				} else {
					defer c.Close()
				}
			}

			srv := server.New(runner, cli.store,
				server.WithCatalog(cli.catalog),
				server.WithCache(c),
				server.WithLogger(cli.log),
				server.WithEnvironment(s.Environment),
			)
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from TRAYSIM_ADDR)")
	return cmd
}
