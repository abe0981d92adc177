package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/eventgate/eventgate/internal/logging"
)

// Watch reloads configuration whenever a config file in directory changes
// and calls onChange with the result. It blocks until ctx is cancelled.
// Only settings that can take effect at runtime (currently the log level)
// are worth acting on; listener settings need a restart.
func Watch(ctx context.Context, directory string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	watched := make(map[string]bool, len(candidateFiles))
	for _, name := range candidateFiles {
		watched[name] = true
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !watched[filepath.Base(ev.Name)] {
				continue
			}
			cfg, err := Load(directory)
			if err != nil {
				logging.Warn().Err(err).Str("file", ev.Name).Msg("config reload failed")
				continue
			}
			logging.Info().Str("file", ev.Name).Msg("config reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().Err(err).Msg("config watcher error")
		}
	}
}
