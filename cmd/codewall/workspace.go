package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dotblox/codewall/internal/bridge"
	"github.com/dotblox/codewall/internal/config"
	"github.com/dotblox/codewall/internal/logging"
	"github.com/dotblox/codewall/internal/runner"
	"github.com/dotblox/codewall/internal/wall"
)

// workspace holds everything a command needs, built from the search path,
// the preferences and the global flags.
type workspace struct {
	locator   *config.Locator
	prefs     config.Preferences
	prefsPath string
	settings  *config.Settings
	runner    runner.Runner
	wall      *wall.Wall
}

func openWorkspace() (*workspace, error) {
	locator := config.NewLocator(config.DefaultSearchPath())

	prefs, prefsPath, err := config.LoadPreferences(locator)
	if err != nil {
		return nil, err
	}
	logging.Debug("Loaded preferences",
		zap.String("path", prefsPath),
		zap.Strings("search_path", locator.SearchPath()),
	)

	settingsPath, err := config.GetSettingsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate settings: %w", err)
	}
	settings, err := config.OpenSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	ws := &workspace{
		locator:   locator,
		prefs:     prefs,
		prefsPath: prefsPath,
		settings:  settings,
		runner:    newRunner(prefs),
	}
	ws.wall = wall.New(wall.Options{
		FS:            newFileSystem(prefs),
		Runner:        ws.runner,
		NameFilters:   prefs.NameFilters,
		ArchiveFolder: prefs.ArchiveFolder,
	})
	return ws, nil
}

// newRunner picks the bridge when one is configured and the local
// interpreters otherwise.
func newRunner(prefs config.Preferences) runner.Runner {
	addr := bridgeAddr
	if addr == "" {
		addr = prefs.BridgeAddress
	}
	if addr != "" {
		client := bridge.NewClient(addr)
		logging.Debug("Running scripts through bridge", zap.String("url", client.URL()))
		return client
	}
	return runner.NewLocalRunner(prefs.PythonCommand, prefs.MelCommand)
}

func newFileSystem(prefs config.Preferences) wall.FileSystem {
	if dryRun || prefs.DryRun {
		return wall.DryRunFileSystem{FS: wall.OSFileSystem{}}
	}
	return wall.OSFileSystem{}
}
