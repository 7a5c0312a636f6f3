package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// fileWatcher reports changes to a fixed set of files.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	// files maps absolute paths to the paths given on the command line.
	files map[string]string
	log   zerolog.Logger
}

// newFileWatcher starts watching the given files. Their directories are
// watched rather than the files themselves, since many editors save by
// replacing the file.
func newFileWatcher(paths []string, log zerolog.Logger) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &fileWatcher{watcher: watcher, files: map[string]string{}, log: log}
	dirs := map[string]bool{}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		w.files[abs] = path
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
		dirs[dir] = true
	}
	return w, nil
}

// Run calls changed with the original path of each watched file that is
// written or created, until ctx is done.
func (w *fileWatcher) Run(ctx context.Context, changed func(path string)) error {
	w.log.Info().Int("files", len(w.files)).Msg("watching for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path, watched := w.files[filepath.Clean(event.Name)]
			if !watched {
				continue
			}
			w.log.Debug().Str("file", path).Str("op", event.Op.String()).Msg("change detected")
			changed(path)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *fileWatcher) Close() error {
	return w.watcher.Close()
}
