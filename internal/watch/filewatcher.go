// Package watch notifies when a single file's content changes.
package watch

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces editor save bursts into one change.
const DefaultDebounce = 100 * time.Millisecond

// FileWatcher watches a file and invokes a callback with its content when
// the content changes. Identical rewrites are ignored.
type FileWatcher struct {
	filePath    string
	callback    func([]byte)
	debounce    time.Duration
	watcher     *fsnotify.Watcher
	logger      *log.Logger
	mu          sync.Mutex
	lastContent []byte
	stopOnce    sync.Once
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// NewFileWatcher creates and starts a watcher for filePath. The directory
// containing filePath must exist. The current content, if any, is recorded
// as the baseline and does not trigger the callback.
func NewFileWatcher(filePath string, debounce time.Duration, logger *log.Logger, callback func([]byte)) (*FileWatcher, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	// Editors often replace the file, so watch the directory.
	dir := filepath.Dir(filePath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fw := &FileWatcher{
		filePath: filePath,
		callback: callback,
		debounce: debounce,
		watcher:  watcher,
		logger:   logger.With("file", filePath),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if content, err := os.ReadFile(filePath); err == nil {
		fw.lastContent = bytes.TrimSpace(content)
	}

	go fw.run()
	return fw, nil
}

// Stop terminates the watcher and waits for its goroutine to exit. It is
// safe to call more than once and from several goroutines.
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		close(fw.stopCh)
		fw.watcher.Close()
	})
	<-fw.doneCh
}

func (fw *FileWatcher) run() {
	defer close(fw.doneCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	fileName := filepath.Base(fw.filePath)

	for {
		select {
		case <-fw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != fileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(fw.debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			fw.checkFile()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("fsnotify error", "err", err)
		}
	}
}

func (fw *FileWatcher) checkFile() {
	content, err := os.ReadFile(fw.filePath)
	if err != nil {
		return
	}
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return
	}

	fw.mu.Lock()
	changed := !bytes.Equal(trimmed, fw.lastContent)
	if changed {
		fw.lastContent = trimmed
	}
	fw.mu.Unlock()

	if !changed {
		return
	}
	fw.logger.Debug("file changed")
	fw.callback(content)
}
