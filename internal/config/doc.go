// Package config provides disk-backed, memory-cached configuration files for
// Code Wall, plus the search-path lookup used to find shared config files.
//
// # ConfigIO and Config
//
// ConfigIO owns a file path, an in-memory cache and the codec used to read
// and write it. Reads are lazy: the file is parsed again only when its
// modification time moved forward (or when forced). Config wraps one ConfigIO
// behind a format-specific constructor (NewJSON, NewYAML) and reads the file
// once when created.
//
// A config is either syncing or paused:
//
//	cfg, err := config.NewJSONDocument(path)
//	if err != nil {
//	    return err
//	}
//	_ = cfg.StartSync(false)
//
//	// Syncing: the file is re-checked on entry and written on exit.
//	err = cfg.Update(func(d *config.Document) error {
//	    (*d)["last_tab"] = root
//	    return nil
//	})
//
//	// Paused: edits stay in memory until Save.
//	cfg.PauseSync()
//
// A missing file is not an error; the default value is used instead. A
// malformed file is, and the error wraps ErrDecode. Failed writes are logged
// and returned as *SaveError.
//
// # Locator
//
// Locator walks an ordered list of directories (CODEWALL_PATH followed by the
// user config directory by default) and yields every existing dir/name lazily,
// so FindOne stops probing at the first hit.
//
// # Files
//
//   - settings.json in the user config directory: local tabs and tree state
//   - codewall.yaml on the search path: preferences (first match wins)
//   - codewall.json on the search path: shared tabs (every match contributes)
//
// # Thread Safety
//
// Configs are not safe for concurrent use, and nothing coordinates writers in
// different processes beyond the modification time check on the next read.
package config
