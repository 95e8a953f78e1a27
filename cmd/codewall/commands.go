package main

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotblox/codewall/internal/runner"
	"github.com/dotblox/codewall/internal/tui"
	"github.com/dotblox/codewall/internal/ui"
	"github.com/dotblox/codewall/internal/wall"
)

// File command flags
var (
	listTree    bool
	archiveRoot string
	forceDelete bool
	scriptLang  string
	editScript  bool
)

func init() {
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(openCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(cpCmd)
	rootCmd.AddCommand(mvCmd)

	lsCmd.Flags().BoolVar(&listTree, "tree", false, "List every folder below dir")
	newCmd.Flags().StringVar(&scriptLang, "lang", string(runner.Python), "Script language when the name has no extension (python, mel)")
	newCmd.Flags().BoolVarP(&editScript, "edit", "e", false, "Open the new script in the editor")
	rmCmd.Flags().StringVar(&archiveRoot, "archive-root", "", "Tab root whose archive folder receives archived files")
	rmCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Delete without asking")
}

// tuiCmd launches the interactive wall
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive wall",
	Long: `Launch the interactive wall.

Each tab shows the folders and scripts below a script root. Press ? inside
the wall for the key bindings.`,
	Example: `  # Launch the wall (tui is the default)
  codewall

  # Run scripts inside a host application
  codewall --bridge maya-box:7011`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	if err := tui.Run(tui.Options{
		Wall:         ws.wall,
		Settings:     ws.settings,
		Locator:      ws.locator,
		TabNameDepth: ws.prefs.TabNameDepth,
		Context:      cmd.Context(),
	}); err != nil {
		return fmt.Errorf("wall error: %w", err)
	}
	return nil
}

var lsCmd = &cobra.Command{
	Use:   "ls [dir]",
	Short: "List the folders and scripts in a folder",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		p := ui.NewPrinter(cmd.OutOrStdout())
		if !listTree {
			entries, err := ws.wall.List(dir)
			if err != nil {
				return err
			}
			p.PrintEntries(entries)
			return nil
		}

		nodes, err := ws.wall.Tree(dir, func(string) bool { return true })
		if err != nil {
			return err
		}
		for _, n := range nodes {
			p.Println(ui.RenderEntry(n.Name, n.Kind, n.Depth))
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a Python or MEL script",
	Long: `Run a script with the configured interpreter, or inside a host
application when a bridge is configured with --bridge or bridge_address.`,
	Example: `  # Run locally with python_command from codewall.yaml
  codewall run tools/build_rig.py

  # Run inside a host application
  codewall run --bridge localhost tools/reset.mel`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		res, err := ws.wall.Run(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("failed to run %s: %w", args[0], err)
		}
		if res == nil {
			return fmt.Errorf("%s is not a Python or MEL script", args[0])
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintResult(path, res)
		return res.Err()
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [dir] [name]",
	Short: "Create a folder",
	Long: `Create a folder inside dir (default: the current folder). Without a name
the folder name is asked for until a free one is given.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		parent := "."
		if len(args) > 0 {
			parent = args[0]
		}
		parent = ws.wall.FolderFor(parent)

		p := ui.NewPrinter(cmd.OutOrStdout())
		var path string
		if len(args) == 2 {
			path, err = ws.wall.CreateFolder(parent, args[1])
		} else {
			var ok bool
			path, ok, err = ws.wall.CreateFolderDialog(parent, ui.NewLineDialogs(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err == nil && !ok {
				return nil
			}
		}
		if err != nil {
			return err
		}
		p.PrintSuccess("Folder created", ui.Detail{Key: "Path", Value: path})
		return nil
	},
}

var newCmd = &cobra.Command{
	Use:   "new [dir] [name]",
	Short: "Create an empty script",
	Long: `Create an empty script inside dir (default: the current folder). A name
without .py or .mel gets the extension of --lang. Without a name it is asked
for until a free one is given.`,
	Example: `  # Create tools/shelf.mel and open it
  codewall new --lang mel -e tools shelf`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := runner.ParseLanguage(scriptLang)
		if err != nil {
			return err
		}
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		parent := "."
		if len(args) > 0 {
			parent = args[0]
		}
		parent = ws.wall.FolderFor(parent)

		var path string
		if len(args) == 2 {
			path, err = ws.wall.CreateScript(parent, args[1], lang)
		} else {
			var ok bool
			path, ok, err = ws.wall.CreateScriptDialog(parent, lang, ui.NewLineDialogs(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err == nil && !ok {
				return nil
			}
		}
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Script created", ui.Detail{Key: "Path", Value: path})
		if editScript {
			return runAttached(cmd, wall.EditorCommand(path))
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Open a script in $VISUAL or $EDITOR",
	Long: `Open a script in $VISUAL or $EDITOR. Without either, the system's default
application is used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAttached(cmd, wall.EditorCommand(args[0]))
	},
}

var openCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Show a folder in the system file browser",
	Long: `Show a folder in the system file browser. A file opens its folder.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		path, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		folder := wall.New(wall.Options{}).FolderFor(path)
		if err := wall.OpenCommand(folder).Run(); err != nil {
			return fmt.Errorf("failed to open %s: %w", folder, err)
		}
		return nil
	},
}

// runAttached runs an interactive command on the command's streams.
func runAttached(cmd *cobra.Command, c *exec.Cmd) error {
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return nil
}

var renameCmd = &cobra.Command{
	Use:   "rename <path> [new-name]",
	Short: "Rename a file or folder",
	Long: `Rename a file or folder in place. A file keeps its extension when the new
name has none. Without a new name it is asked for.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		var target string
		if len(args) == 2 {
			target, err = ws.wall.Rename(args[0], args[1])
		} else {
			var ok bool
			target, ok, err = ws.wall.RenameDialog(args[0], ui.NewLineDialogs(cmd.InOrStdin(), cmd.OutOrStdout()))
			if err == nil && !ok {
				return nil
			}
		}
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Renamed", ui.Detail{Key: "Path", Value: target})
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Archive or delete a file or folder",
	Long: `Ask whether to archive or delete a file or folder. Archiving moves it into
the archive folder of --archive-root and is only offered when that flag is set.`,
	Example: `  # Offer to archive into /studio/scripts/__archive
  codewall rm --archive-root /studio/scripts /studio/scripts/old/tool.py

  # Delete without asking
  codewall rm -f build/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		p := ui.NewPrinter(cmd.OutOrStdout())

		if forceDelete {
			if err := ws.wall.Delete(args[0]); err != nil {
				return err
			}
			p.PrintSuccess("Deleted", ui.Detail{Key: "Path", Value: args[0]})
			return nil
		}

		choice, target, err := ws.wall.Remove(args[0], archiveRoot, ui.NewLineDialogs(cmd.InOrStdin(), cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		switch choice {
		case wall.ChoiceArchive:
			p.PrintSuccess("Archived", ui.Detail{Key: "Path", Value: target})
		case wall.ChoiceDelete:
			p.PrintSuccess("Deleted", ui.Detail{Key: "Path", Value: target})
		}
		return nil
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp <src>... <dst>",
	Short: "Copy files or folders into a folder",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDrop(cmd, args, wall.DropCopy)
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <src>... <dst>",
	Short: "Move files or folders into a folder",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDrop(cmd, args, wall.DropMove)
	},
}

func runDrop(cmd *cobra.Command, args []string, action wall.DropAction) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	srcs, dst := args[:len(args)-1], args[len(args)-1]

	done, err := ws.wall.Drop(srcs, dst, action)
	p := ui.NewPrinter(cmd.OutOrStdout())
	for _, path := range done {
		p.Println(ui.SuccessTitleStyle.Render(ui.SuccessMarker) + " " + path)
	}
	if errors.Is(err, wall.ErrExists) {
		return fmt.Errorf("%w (nothing after it was touched)", err)
	}
	return err
}
