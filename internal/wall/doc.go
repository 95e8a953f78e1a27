// Package wall implements the file operations behind Code Wall: listing
// script folders, creating folders, renaming, archiving, deleting, dropping
// files onto folders and running scripts.
//
// User interaction goes through the Prompter and Confirmer interfaces and
// every filesystem change goes through FileSystem, so the same operations
// back the CLI, the TUI and the tests. DryRunFileSystem logs the changes a
// command would make without touching anything.
//
//	w := wall.New(wall.Options{Runner: runner.NewLocalRunner(python, mel)})
//	choice, archived, err := w.Remove(path, tabRoot, confirmer)
package wall
