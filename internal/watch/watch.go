package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce groups the burst of events a single export produces.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches Names inside Dir. The directory itself is watched so
// editors and exporters that replace files atomically are still seen.
type Watcher struct {
	Dir      string
	Names    []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// Run calls onChange once per burst of changes until ctx is cancelled.
// onChange runs on the Run goroutine, so calls never overlap. Its error is
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string) error) error {
	log := w.Logger
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return err
	}
	log.Info("watch: watching for changes", zap.String("dir", w.Dir), zap.Strings("files", w.Names))

	wanted := make(map[string]bool, len(w.Names))
	for _, n := range w.Names {
		wanted[n] = true
	}

	var (
		pending = make(map[string]bool)
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if !wanted[name] {
				continue
			}
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for _, n := range w.Names {
				if pending[n] {
					changed = append(changed, n)
				}
			}
			clear(pending)

			log.Info("watch: files changed", zap.Strings("files", changed))
			if err := onChange(ctx, changed); err != nil {
				log.Error("watch: run failed, waiting for next change", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch: watcher error", zap.Error(err))
		}
	}
}
