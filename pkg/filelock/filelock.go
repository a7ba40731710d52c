// Package filelock provides thread-safe per-destination-path locking so two
// workers in the executor's copy pool never resolve a collision against the
// same destination and then write past each other.
//
// This package implements a lock manager that uses a VIN/category document's
// destination path as the lock key, ensuring that only one goroutine can
// resolve and write to a specific destination at a time.
//
// Example usage:
//
//	lm := filelock.NewLockManager()
//
//	// Manual locking
//	if err := lm.Lock("output/1HGCM82633A004352/Facturi/factura.pdf"); err != nil {
//	    return err
//	}
//	defer lm.Unlock("output/1HGCM82633A004352/Facturi/factura.pdf")
//	// ... resolve collision and copy
//
//	// Automatic locking with function
//	err := lm.WithLock(dst, func() error {
//	    // ... resolve collision and copy
//	    return nil
//	})
//
//	// Non-blocking lock attempt
//	if lm.TryLock(dst) {
//	    defer lm.Unlock(dst)
//	    // ... resolve collision and copy
//	}
package filelock

import (
	"fmt"
	"sync"
	"time"
)

// LockManager manages per-destination-path locks to prevent two copy
// workers from racing on the same destination during collision resolution.
type LockManager struct {
	locks map[string]*fileLock
	mu    sync.Mutex
}

// fileLock represents a lock on a specific destination path.
type fileLock struct {
	path      string
	mu        sync.Mutex
	acquired  time.Time
	goroutine string
}

// NewLockManager creates a new destination-path lock manager.
func NewLockManager() *LockManager {
	return &LockManager{
		locks: make(map[string]*fileLock),
	}
}

// Lock acquires a lock on a destination path, blocking until it's free.
func (lm *LockManager) Lock(path string) error {
	lm.mu.Lock()

	lock, exists := lm.locks[path]
	if !exists {
		lock = &fileLock{
			path: path,
		}
		lm.locks[path] = lock
	}
	lm.mu.Unlock()

	lock.mu.Lock()
	lock.acquired = time.Now()

	return nil
}

// Unlock releases a lock on a destination path.
func (lm *LockManager) Unlock(path string) error {
	lm.mu.Lock()
	lock, exists := lm.locks[path]
	lm.mu.Unlock()

	if !exists {
		return fmt.Errorf("no lock found for destination: %s", path)
	}

	lock.mu.Unlock()
	return nil
}

// TryLock attempts to acquire a lock without blocking.
// Returns true if the lock was acquired, false if another worker holds it.
func (lm *LockManager) TryLock(path string) bool {
	lm.mu.Lock()

	lock, exists := lm.locks[path]
	if !exists {
		lock = &fileLock{
			path: path,
		}
		lm.locks[path] = lock
	}
	lm.mu.Unlock()

	if lock.mu.TryLock() {
		lock.acquired = time.Now()
		return true
	}

	return false
}

// IsLocked reports whether a destination path is currently held by another
// worker.
func (lm *LockManager) IsLocked(path string) bool {
	lm.mu.Lock()
	lock, exists := lm.locks[path]
	lm.mu.Unlock()

	if !exists {
		return false
	}

	if lock.mu.TryLock() {
		lock.mu.Unlock()
		return false
	}

	return true
}

// WithLock runs fn (typically collision resolution and the copy) while
// holding that destination's lock, then releases it.
func (lm *LockManager) WithLock(path string, fn func() error) error {
	if err := lm.Lock(path); err != nil {
		return err
	}
	defer lm.Unlock(path)

	return fn()
}

// CleanupStale removes destination locks that haven't been touched recently,
// a safety net against lock leaks across a long-running reorganization pass.
func (lm *LockManager) CleanupStale(maxAge time.Duration) int {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	removed := 0
	for path, lock := range lm.locks {
		if lock.mu.TryLock() {
			if time.Since(lock.acquired) > maxAge {
				lock.mu.Unlock()
				delete(lm.locks, path)
				removed++
			} else {
				lock.mu.Unlock()
			}
		}
	}

	return removed
}

// Size returns the number of destination locks currently tracked.
func (lm *LockManager) Size() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	return len(lm.locks)
}
