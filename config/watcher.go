// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tochemey/mailhub/log"
)

// DefaultDebounce is how long the Watcher waits for writes to settle before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc is called with the previous and the reloaded configuration.
type ChangeFunc func(previous, current *Config)

// Watcher reloads a configuration file when it changes. The directory of the
// file is watched so that editors replacing the file are noticed.
type Watcher struct {
	path     string
	logger   log.Logger
	debounce time.Duration

	mu        sync.RWMutex
	config    *Config
	callbacks []ChangeFunc

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewWatcher loads the file at path and prepares a Watcher for it.
func NewWatcher(path string, logger log.Logger) (*Watcher, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	config, err := Load(absolute)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.DiscardLogger
	}

	return &Watcher{
		path:     filepath.Clean(absolute),
		logger:   logger,
		debounce: DefaultDebounce,
		config:   config,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the settle delay. It must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Config returns the current configuration.
func (w *Watcher) Config() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// OnChange registers a callback run after every successful reload.
func (w *Watcher) OnChange(fn ChangeFunc) {
	w.mu.Lock()
	w.callbacks = append(w.callbacks, fn)
	w.mu.Unlock()
}

// Start begins watching the file.
func (w *Watcher) Start() error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file system watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		_ = fsWatcher.Close()
		return fmt.Errorf("failed to watch config file: %w", err)
	}

	w.fsWatcher = fsWatcher
	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Stop stops watching and waits for a reload in progress.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsWatcher != nil {
			err = w.fsWatcher.Close()
		}
		w.wg.Wait()
	})
	return err
}

// Reload loads the file again and notifies the callbacks. A file that does
// not load keeps the current configuration.
func (w *Watcher) Reload() error {
	config, err := Load(w.path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	previous := w.config
	w.config = config
	callbacks := make([]ChangeFunc, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, callback := range callbacks {
		callback(previous, config)
	}
	return nil
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(w.debounce)
			}

		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.logger.Warnf("config %s not reloaded: %v", w.path, err)
				continue
			}
			w.logger.Infof("config %s reloaded", w.path)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("config watcher error: %v", err)
		}
	}
}
