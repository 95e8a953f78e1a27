package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dotblox/codewall/internal/config"
	"github.com/dotblox/codewall/internal/ui"
)

var findAll bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configFindCmd)
	configCmd.AddCommand(configShowCmd)

	configFindCmd.Flags().BoolVar(&findAll, "all", false, "Print every match instead of the first")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration files and the search path",
}

var configFindCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Find a file on the search path",
	Long: `Look for <name> in every directory of the search path: $CODEWALL_PATH
followed by the user config directory. Duplicate directories are searched once.`,
	Example: `  codewall config find codewall.yaml
  codewall config find codewall.json --all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		locator := config.NewLocator(config.DefaultSearchPath())
		out := cmd.OutOrStdout()

		if findAll {
			matches := locator.FindAll(args[0])
			if len(matches) == 0 {
				return fmt.Errorf("%s not found on the search path", args[0])
			}
			for _, m := range matches {
				fmt.Fprintln(out, m)
			}
			return nil
		}

		match, ok := locator.FindOne(args[0])
		if !ok {
			return fmt.Errorf("%s not found on the search path", args[0])
		}
		fmt.Fprintln(out, match)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the search path and the effective preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		prefsFile := ws.prefsPath
		if prefsFile == "" {
			prefsFile = "(defaults)"
		}
		p := ui.NewPrinter(cmd.OutOrStdout())
		p.Println(ui.RenderDetails([]ui.Detail{
			{Key: "Search path", Value: strings.Join(ws.locator.SearchPath(), ", ")},
			{Key: "Preferences", Value: prefsFile},
			{Key: "Settings", Value: ws.settings.Config().Path()},
		}))
		p.Println("")

		data, err := yaml.Marshal(ws.prefs)
		if err != nil {
			return fmt.Errorf("failed to marshal preferences: %w", err)
		}
		p.Println(strings.TrimRight(string(data), "\n"))
		return nil
	},
}
