package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/internal/server"
	"github.com/matzehuels/rampboard/pkg/cache"
	"github.com/matzehuels/rampboard/pkg/observability"
	"github.com/matzehuels/rampboard/pkg/session"
)

const (
	// dashboardDirName holds uploads and dashboard sessions below the cache directory.
	dashboardDirName = "dashboard"

	// redisPrefix namespaces dashboard keys in a shared Redis.
	redisPrefix = "rampboard:"
)

// serveCommand starts the web dashboard.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Serve starts the dashboard: upload a CSV, choose the key column, value
columns and key value, and download the chart or the proportion table.

Uploads are kept in Redis when cache.redis_url is set and in the cache
directory otherwise. Each browser gets its own session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := *c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if c.noCache {
				logger.Info("--no-cache ignored: the dashboard keeps uploads in the cache")
			}

			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			dir = filepath.Join(dir, dashboardDirName)

			var cc cache.Cache
			if url := cfg.Cache.RedisURL; url != "" {
				cc, err = cache.NewRedisCache(ctx, url, redisPrefix)
				if err != nil {
					return err
				}
				logger.Debug("using redis cache", "url", url)
			} else {
				cc, err = cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				logger.Debug("using file cache", "dir", dir)
			}
			defer cc.Close()

			store, err := session.NewFileStore(filepath.Join(dir, sessionDirName))
			if err != nil {
				return err
			}

			observability.SetHTTPHooks(observability.NewLogHooks(logger))

			srv, err := server.New(&cfg, cc, store, logger)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), "Dashboard at http://%s", displayAddr(cfg.Server.Addr))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

// displayAddr turns a listen address such as ":8080" into something a
// browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
