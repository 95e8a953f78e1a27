// Package tui is the interactive Code Wall.
//
// Every script root is a tab. The active tab shows a tree of folders and
// scripts; expanding a folder is remembered in the user settings so the tree
// comes back the same way in the next session. Shared tabs from codewall.json
// files on the search path are shown after the local ones and cannot be
// closed from here.
//
// Dialogs (new folder, rename, add tab, delete or archive, close tab) open
// inline below the tree. Invalid names keep the prompt open with a notice,
// the same way the line-based dialogs re-ask.
//
// Scripts run through the configured runner.Runner in the background; a
// spinner marks the running script and its output is shown when it ends.
package tui
