package mandate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kafkaos/kafkaos/internal/klog"
	"github.com/kafkaos/kafkaos/internal/model"
)

// Reloader watches the mandate parameter file and hot-reloads the evaluator
// when it changes, so rule tuning takes effect mid-session.
type Reloader struct {
	watcher   *fsnotify.Watcher
	evaluator *Evaluator
	path      string
	log       *klog.Logger
}

// NewReloader creates a file watcher for the given parameter file. The file
// must exist at creation time.
func NewReloader(evaluator *Evaluator, path string, log *klog.Logger) (*Reloader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("mandate params not watchable: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %q: %w", path, err)
	}

	return &Reloader{watcher: watcher, evaluator: evaluator, path: path, log: log}, nil
}

// Run watches for file changes and reloads parameters. Blocks until ctx is
// cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	// Debounce: wait 500ms after last write before reloading
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, func() {
					if err := r.evaluator.Reload(r.path); err != nil {
						r.log.Logf(model.SevError, "Mandate parameter hot-reload failed: %v", err)
					} else {
						r.log.Logf(model.SevSystem, "Mandate parameters reloaded from %s.", r.path)
					}
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Logf(model.SevError, "Mandate parameter watcher error: %v", err)
		}
	}
}
