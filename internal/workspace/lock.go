// Package workspace manages the branch worktrees checked out against a
// single shared store.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	cerrors "github.com/alexisbeaulieu97/cgwt/internal/errors"
	"github.com/alexisbeaulieu97/cgwt/internal/logging"
)

const lockFileName = ".cgwt.lock"

// LockManager guards concurrent Add/Remove against the same branch with a
// heartbeat file lock: a stale lock (one whose mtime is older than
// staleThreshold) is taken over rather than waited out forever.
type LockManager struct {
	timeout        time.Duration
	staleThreshold time.Duration
	logger         *logging.Logger
	now            func() time.Time
	sleep          func(time.Duration)
}

// LockHandle represents an acquired branch lock.
type LockHandle struct {
	branch   string
	path     string
	file     *os.File
	logger   *logging.Logger
	stopOnce sync.Once
	stopCh   chan struct{}
	mu       sync.RWMutex
}

// NewLockManager creates a new LockManager.
func NewLockManager(timeout, staleThreshold time.Duration, logger *logging.Logger) *LockManager {
	return &LockManager{
		timeout:        timeout,
		staleThreshold: staleThreshold,
		logger:         logger,
		now:            time.Now,
		sleep:          time.Sleep,
	}
}

// Acquire obtains an exclusive lock for a branch's worktree directory.
func (m *LockManager) Acquire(ctx context.Context, worktreePath, branch string) (*LockHandle, error) {
	if err := os.MkdirAll(worktreePath, 0o750); err != nil {
		return nil, cerrors.NewInternalError("create worktree directory for lock", err)
	}

	lockPath := filepath.Join(worktreePath, lockFileName)
	deadline := m.now().Add(m.timeout)

	for {
		if ctx.Err() != nil {
			return nil, cerrors.NewTimeout("acquire workspace lock for "+branch, m.timeout)
		}

		file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:gosec // lockPath is derived from the worktree path
		if err == nil {
			handle := &LockHandle{
				branch: branch,
				path:   lockPath,
				file:   file,
				logger: m.logger,
			}

			handle.startHeartbeat(m.staleThreshold, m.now)

			if m.logger != nil {
				m.logger.Debug("workspace lock acquired", "branch", branch, "path", lockPath)
			}

			return handle, nil
		}

		if !errors.Is(err, os.ErrExist) {
			return nil, cerrors.NewInternalError(fmt.Sprintf("acquire lock %s", lockPath), err)
		}

		stale, staleErr := m.removeIfStale(lockPath)
		if staleErr != nil {
			return nil, staleErr
		}

		if stale {
			continue
		}

		if m.now().After(deadline) {
			return nil, cerrors.NewWorkspaceBusy(branch, "locked by another operation")
		}

		m.sleep(100 * time.Millisecond)
	}
}

func (m *LockManager) removeIfStale(lockPath string) (bool, error) {
	if m.staleThreshold <= 0 {
		return false, nil
	}

	info, err := os.Stat(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, cerrors.NewInternalError(fmt.Sprintf("stat lock %s", lockPath), err)
	}

	if m.now().Sub(info.ModTime()) <= m.staleThreshold {
		return false, nil
	}

	if err := os.Remove(lockPath); err != nil {
		return false, cerrors.NewInternalError(fmt.Sprintf("remove stale lock %s", lockPath), err)
	}

	if m.logger != nil {
		m.logger.Debug("stale workspace lock removed", "path", lockPath)
	}

	return true, nil
}

func (h *LockHandle) startHeartbeat(staleThreshold time.Duration, now func() time.Time) {
	if staleThreshold <= 0 {
		return
	}

	interval := staleThreshold / 2
	if interval <= 0 {
		interval = staleThreshold
	}

	h.stopCh = make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ts := now()

				h.mu.RLock()
				path := h.path
				branch := h.branch
				h.mu.RUnlock()

				if err := os.Chtimes(path, ts, ts); err != nil && h.logger != nil {
					h.logger.Debug("workspace lock heartbeat failed", "branch", branch, "error", err)
				}
			case <-h.stopCh:
				return
			}
		}
	}()
}

// Release releases the lock and removes the lock file.
func (h *LockHandle) Release() error {
	h.stopOnce.Do(func() {
		if h.stopCh != nil {
			close(h.stopCh)
		}
	})

	if h.file != nil {
		_ = h.file.Close()
	}

	h.mu.RLock()
	path := h.path
	branch := h.branch
	h.mu.RUnlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return cerrors.NewInternalError(fmt.Sprintf("release lock %s", path), err)
	}

	if h.logger != nil {
		h.logger.Debug("workspace lock released", "branch", branch, "path", path)
	}

	return nil
}
