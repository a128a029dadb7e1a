// Package catalog - Hot-swappable catalog store
// Readers always see one complete, validated snapshot. A reload that fails
// validation leaves the current snapshot in place.
package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"rag-cost/internal/logging"
)

// Store holds the current catalog snapshot
type Store struct {
	current atomic.Pointer[Catalog]
	logger  *zap.Logger

	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	watchDone chan struct{}
	cancel    context.CancelFunc
}

// NewStore creates a store publishing initial. A nil logger uses the global one.
func NewStore(initial *Catalog, logger *zap.Logger) *Store {
	s := &Store{logger: logging.OrGlobal(logger).Named("catalog")}
	s.current.Store(initial)
	return s
}

// Catalog returns the current snapshot
func (s *Store) Catalog() *Catalog {
	return s.current.Load()
}

// Replace publishes c
func (s *Store) Replace(c *Catalog) {
	s.current.Store(c)
}

// Reload loads path and publishes it if it validates
func (s *Store) Reload(path string) error {
	c, err := LoadFile(path)
	if err != nil {
		s.logger.Warn("catalog reload rejected, keeping current snapshot",
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	s.current.Store(c)
	s.logger.Info("catalog reloaded",
		zap.String("path", path),
		zap.Int("entries", c.Len()),
	)
	return nil
}

// Watch reloads path whenever it is written or recreated, until ctx is done
// or Close is called. Either one releases the watcher. Reloads are logged
// by the store; onReload, if set, also receives the result of every reload.
func (s *Store) Watch(ctx context.Context, path string, onReload func(error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		s.stopLocked()
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve catalog path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}

	// Editors often replace the file via rename, so watch the directory.
	dir := filepath.Dir(absPath)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch directory %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	s.watcher = w
	s.watchDone = make(chan struct{})
	s.cancel = cancel

	go s.watchLoop(ctx, w, s.watchDone, absPath, onReload)

	s.logger.Info("watching catalog for changes", zap.String("path", absPath))
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, done chan struct{}, target string, onReload func(error)) {
	defer close(done)
	defer func() {
		if err := w.Close(); err != nil {
			s.logger.Warn("closing catalog watcher", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if abs, _ := filepath.Abs(event.Name); abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			err := s.Reload(target)
			if onReload != nil {
				onReload(err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Error("catalog watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher, if running
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

func (s *Store) stopLocked() error {
	if s.watcher == nil {
		return nil
	}
	s.cancel()
	<-s.watchDone
	s.watcher = nil
	s.watchDone = nil
	s.cancel = nil
	return nil
}
