package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dotblox/codewall/internal/config"
	"github.com/dotblox/codewall/internal/ui"
	"github.com/dotblox/codewall/internal/wall"
)

// Tab command flags
var (
	tabGlobal bool
	tabName   string
)

func init() {
	rootCmd.AddCommand(tabsCmd)
	tabsCmd.AddCommand(tabsListCmd)
	tabsCmd.AddCommand(tabsAddCmd)
	tabsCmd.AddCommand(tabsRemoveCmd)
	tabsCmd.AddCommand(tabsMoveCmd)

	tabsAddCmd.Flags().BoolVar(&tabGlobal, "global", false, "Add to the first shared codewall.json on the search path")
	tabsAddCmd.Flags().StringVar(&tabName, "name", "", "Tab label (default: trailing path components)")
	tabsRemoveCmd.Flags().BoolVar(&tabGlobal, "global", false, "Remove from the shared codewall.json listing it")
}

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Manage the script folders shown as tabs",
	Long: `Manage tabs. Local tabs are stored in the user settings file. Shared
tabs are read from every codewall.json on the search path.`,
}

var tabsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local and shared tabs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		local, err := ws.settings.Tabs()
		if err != nil {
			return err
		}
		global, err := config.LoadGlobalTabs(ws.locator)
		if err != nil {
			return err
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		if len(local)+len(global) == 0 {
			p.Println(ui.MutedStyle.Render("No tabs. Add one with: codewall tabs add <dir>"))
			return nil
		}
		for i, tab := range append(local, global...) {
			position, scope := strconv.Itoa(i+1), "local"
			if tab.Global {
				position, scope = "-", "shared"
			}
			name := tab.Name
			if name == "" {
				name = wall.TabName(tab.Path, ws.prefs.TabNameDepth)
			}
			p.Println(fmt.Sprintf("%2s  %-20s %s  %s", position, name, ui.MutedStyle.Render(fmt.Sprintf("%-6s", scope)), tab.Path))
		}
		return nil
	},
}

var tabsAddCmd = &cobra.Command{
	Use:   "add <dir>",
	Short: "Add a tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a folder", dir)
		}

		tab := config.Tab{Name: tabName, Path: dir}
		p := ui.NewPrinter(cmd.OutOrStdout())
		if tabGlobal {
			file, err := config.AddGlobalTab(ws.locator, tab)
			if err != nil {
				return err
			}
			p.PrintSuccess("Shared tab added", ui.Detail{Key: "Path", Value: dir}, ui.Detail{Key: "File", Value: file})
			return nil
		}
		if err := ws.settings.AddTab(tab); err != nil {
			return err
		}
		p.PrintSuccess("Tab added", ui.Detail{Key: "Path", Value: dir})
		return nil
	},
}

var tabsRemoveCmd = &cobra.Command{
	Use:   "remove <dir>",
	Short: "Remove a tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		if tabGlobal {
			file, err := config.RemoveGlobalTab(ws.locator, dir)
			if err != nil {
				return err
			}
			p.PrintSuccess("Shared tab removed", ui.Detail{Key: "Path", Value: dir}, ui.Detail{Key: "File", Value: file})
			return nil
		}
		if err := ws.settings.RemoveTab(dir); err != nil {
			return err
		}
		p.PrintSuccess("Tab removed", ui.Detail{Key: "Path", Value: dir})
		return nil
	},
}

var tabsMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move a local tab to another position",
	Long: `Move a local tab. Positions are the numbers shown by 'codewall tabs list';
shared tabs always follow the local ones.`,
	Example: `  # Make the third tab the first one
  codewall tabs move 3 1`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[0])
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid position %q", args[1])
		}

		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		if err := ws.settings.MoveTab(from-1, to-1); err != nil {
			return err
		}
		tabs, err := ws.settings.Tabs()
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Tab moved", ui.Detail{Key: "Path", Value: tabs[to-1].Path}, ui.Detail{Key: "Position", Value: args[1]})
		return nil
	},
}
