// Codewall browses, organizes and runs the Python and MEL scripts of a
// studio's script folders.
//
// Every script folder is a tab. Folders can be created, renamed, archived or
// deleted, scripts are run locally or inside a host application through a
// bridge, and the open tabs and tree state are shared between sessions.
//
// Usage:
//
//	codewall [command] [flags]
//
// Running without arguments launches the interactive wall.
// See 'codewall --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dotblox/codewall/internal/logging"
	"github.com/dotblox/codewall/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	logLevel   string
	dryRun     bool
	bridgeAddr string
)

var rootCmd = &cobra.Command{
	Use:   "codewall",
	Short: "Code Wall script browser",
	Long: `Browse, organize and run Python and MEL scripts.

Script folders are shown as tabs. Local tabs live in the user settings;
shared tabs come from every codewall.json found on the search path
(CODEWALL_PATH, then the user config directory).

If no command is specified, the interactive wall will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: runTUI,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log file operations instead of performing them")
	rootCmd.PersistentFlags().StringVar(&bridgeAddr, "bridge", "", "Run scripts through the bridge at host[:port]")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Banner("codewall"))
	},
}
