package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/freekieb7/hearth/config"
	"github.com/freekieb7/hearth/log"
)

var (
	verbose bool
	// cfg is loaded before any subcommand runs.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hearth",
	Short: "A small HTTP/1.1 server with exact-match routing.",
	Long: `hearth serves one request per connection over TCP or QUIC, dispatching on the
exact (path, method) pair. Static routes come from the config file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}

		// A bad log section is reported by Validate; until then log at the
		// default level.
		opts, optsErr := cfg.LogOptions()
		opts = append(opts, log.WithOutput(cmd.ErrOrStderr()))
		if verbose {
			opts = append(opts, log.WithDevMode())
		}
		log.Init(opts...)
		if optsErr != nil {
			log.Warnf("Ignoring log config: %v", optsErr)
		}
		return nil
	},
}

// ExecuteContext adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&config.ConfigFile, "config", "", "config file (default is $HOME/.hearth/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
