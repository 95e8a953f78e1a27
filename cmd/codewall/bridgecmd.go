package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotblox/codewall/internal/bridge"
	"github.com/dotblox/codewall/internal/config"
	"github.com/dotblox/codewall/internal/runner"
	"github.com/dotblox/codewall/internal/ui"
)

// Bridge command flags
var (
	serveHost    string
	servePort    int
	advertise    bool
	instanceName string
	scanTimeout  int
)

func init() {
	rootCmd.AddCommand(bridgeCmd)
	bridgeCmd.AddCommand(bridgeServeCmd)
	bridgeCmd.AddCommand(bridgeScanCmd)

	bridgeServeCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Interface to listen on (empty = all interfaces)")
	bridgeServeCmd.Flags().IntVar(&servePort, "port", bridge.DefaultPort, "Port to listen on")
	bridgeServeCmd.Flags().BoolVar(&advertise, "advertise", false, "Announce the bridge over mDNS")
	bridgeServeCmd.Flags().StringVar(&instanceName, "name", "", "mDNS instance name (default: hostname)")

	bridgeScanCmd.Flags().IntVar(&scanTimeout, "timeout", 3, "Scan timeout in seconds")
}

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Run scripts inside a host application",
}

var bridgeServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve script runs to codewall clients",
	Long: `Start a bridge that runs scripts requested by codewall clients with the
local python_command and mel_command. Host applications start the same
server in-process to run scripts in their own session.`,
	Example: `  # Serve on localhost
  codewall bridge serve

  # Serve on the network and announce over mDNS
  codewall bridge serve --host "" --advertise`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, _, err := config.LoadPreferences(config.NewLocator(config.DefaultSearchPath()))
		if err != nil {
			return err
		}

		srv, err := bridge.New(&bridge.Config{
			Host:      serveHost,
			Port:      servePort,
			Advertise: advertise,
			Instance:  instanceName,
		}, runner.NewLocalRunner(prefs.PythonCommand, prefs.MelCommand))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bridge listening on %s (Ctrl+C to stop)\n", bridge.BridgeURL(srv.Addr()))
		return srv.Start()
	},
}

var bridgeScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find bridges on the local network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Scanning for bridges (timeout: %ds)...\n\n", scanTimeout)

		scanner := bridge.NewScanner()
		scanner.Timeout = time.Duration(scanTimeout) * time.Second
		hosts, err := scanner.Scan(cmd.Context())
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		if len(hosts) == 0 {
			p.Println("No bridges found.")
			return nil
		}
		for i, h := range hosts {
			p.Println(fmt.Sprintf("%d. %s", i+1, h.Instance))
			p.Println(ui.RenderDetails([]ui.Detail{
				{Key: "   Host", Value: h.Hostname},
				{Key: "   Address", Value: h.Address()},
			}))
		}
		p.Println("")
		p.Println("Use 'codewall --bridge <address>' to run scripts through a bridge")
		return nil
	},
}
