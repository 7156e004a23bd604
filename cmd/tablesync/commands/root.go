package commands

import (
	"context"
	"fmt"
	"niopendata/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "tablesync",
	Short: "tablesync publishes nested tables to wiki pages without needless rewrites.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			telemetry.InitSlog(true)
		}
		config, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		cmd.SetContext(withGlobals(cmd.Context(), &globals{config: config}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tablesync.json5", "Config file, searched for upwards from the working directory.")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log at debug level and dump http exchanges to debug_dir.")
}

// ExecuteContext runs the command line, the error has already been printed
// when it is returned.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
