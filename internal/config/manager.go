package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// TableManager serves the current Tables snapshot and hot-reloads it when the
// tables file changes on disk. Readers always see a complete snapshot; a
// reload that fails to parse keeps the previous tables.
type TableManager struct {
	path   string
	logger *zap.Logger

	mu     sync.RWMutex
	tables *Tables

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewTableManager loads the initial tables. An empty path serves the built-in
// defaults and disables watching.
func NewTableManager(path string, logger *zap.Logger) (*TableManager, error) {
	tables, err := LoadTables(path)
	if err != nil {
		return nil, err
	}
	return &TableManager{
		path:   path,
		logger: logger,
		tables: tables,
		stopCh: make(chan struct{}),
	}, nil
}

// Get returns the current tables snapshot.
func (m *TableManager) Get() *Tables {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables
}

// Start begins watching the tables file for changes. No-op without a path.
func (m *TableManager) Start(ctx context.Context) error {
	if m.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher
	// Watch the directory: editors replace files on save, which drops the
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return err
	}

	m.wg.Add(1)
	go m.watch(ctx)
	return nil
}

func (m *TableManager) watch(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(m.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			m.reload()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("Tables watcher error", zap.Error(err))
		}
	}
}

func (m *TableManager) reload() {
	tables, err := LoadTables(m.path)
	if err != nil {
		m.logger.Error("Tables reload failed, keeping previous tables",
			zap.String("path", m.path),
			zap.Error(err),
		)
		return
	}
	m.mu.Lock()
	m.tables = tables
	m.mu.Unlock()
	m.logger.Info("Tables reloaded", zap.String("path", m.path))
}

// Stop shuts down the watcher.
func (m *TableManager) Stop() {
	close(m.stopCh)
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()
}
