package aircraftdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/skyward-io/skyward/pkg/log"
)

// Watcher hot-reloads a JSON override file ({"B738": 460, ...}) into a
// Table whenever the file changes. It runs as a background server so
// operators can tune speeds without a restart.
type Watcher struct {
	table *Table
	path  string
}

func NewWatcher(table *Table, path string) *Watcher {
	return &Watcher{table: table, path: path}
}

// Start loads the file once and then watches it until the context is
// cancelled. A missing file at startup is not an error; the builtin
// table serves until one appears.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.load(); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		log.Info("speed override file absent, using builtin table", "path", w.path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and config reloaders
	// typically replace the file via rename, which drops a file-level
	// watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	log.Info("watching speed override file", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.load(); err != nil {
				log.Error(err, "failed to reload speed overrides", "path", w.path)
				continue
			}
			log.Info("speed overrides reloaded", "path", w.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error(err, "file watcher error", "path", w.path)
		}
	}
}

func (w *Watcher) load() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return err
	}

	var overrides map[string]float64
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("invalid speed override file: %w", err)
	}

	w.table.SetOverrides(overrides)
	return nil
}
