package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rampboard/pkg/buildinfo"
	"github.com/matzehuels/rampboard/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --config: TOML settings file (default $XDG_CONFIG_HOME/rampboard/config.toml)
//   - --verbose (-v): debug logging plus pipeline and cache events
//   - --no-cache: bypass the table and artifact cache
//
// The logger is attached to the command context before any subcommand runs
// and is available through loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Rampboard ranks per-group proportions from CSV tables",
		Long: `Rampboard loads a CSV in any of several text encodings, groups rows by a key
column, normalizes the value columns of each group into proportions and ranks
them as a highlight-and-fade bar chart.`,
		Version:      buildinfo.Current(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
				observability.SetPipelineHooks(observability.NewLogHooks(c.Logger))
				observability.SetCacheHooks(observability.NewLogHooks(c.Logger))
			}
			c.SetLogLevel(level)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (TOML)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.rankCommand())
	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.detectCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.landmarksCommand())
	root.AddCommand(c.mbtiCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
