// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period a Watcher waits before reporting changes.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a set of files. Parent directories are watched
// rather than the files themselves so that editors replacing a file on save
// keep being noticed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]struct{}
	debounce time.Duration
	events   chan string
	done     chan struct{}
	logger   log.FieldLogger
}

// NewWatcher starts watching paths. Changes are reported on Events once no
// further change arrived for debounce.
func NewWatcher(debounce time.Duration, paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]struct{}, len(paths)),
		debounce: debounce,
		events:   make(chan string, len(paths)),
		done:     make(chan struct{}),
		logger:   log.StandardLogger(),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	go w.loop()
	return w, nil
}

// Events delivers the absolute paths of changed files. It is closed by Close.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	defer close(w.events)

	var (
		pending = make(map[string]struct{})
		timer   *time.Timer
		fire    <-chan time.Time
	)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := w.files[name]; !ok {
				continue
			}
			pending[name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			for name := range pending {
				select {
				case w.events <- name:
				case <-w.done:
					return
				}
				delete(pending, name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("file watcher")
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
