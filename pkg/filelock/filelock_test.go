package filelock

import (
	"sync"
	"testing"
	"time"
)

func TestLockUnlock(t *testing.T) {
	lm := NewLockManager()
	path := "output/1HGCM82633A004352/Facturi/factura.pdf"

	if err := lm.Lock(path); err != nil {
		t.Errorf("Lock failed: %v", err)
	}

	if err := lm.Unlock(path); err != nil {
		t.Errorf("Unlock failed: %v", err)
	}
}

func TestTryLock(t *testing.T) {
	lm := NewLockManager()
	path := "output/1HGCM82633A004352/Facturi/factura.pdf"

	if !lm.TryLock(path) {
		t.Error("First TryLock should succeed")
	}

	if lm.TryLock(path) {
		t.Error("Second TryLock should fail")
	}

	lm.Unlock(path)

	if !lm.TryLock(path) {
		t.Error("TryLock after unlock should succeed")
	}

	lm.Unlock(path)
}

func TestIsLocked(t *testing.T) {
	lm := NewLockManager()
	path := "output/1HGCM82633A004352/Facturi/factura.pdf"

	if lm.IsLocked(path) {
		t.Error("Destination should not be locked initially")
	}

	lm.Lock(path)

	if !lm.IsLocked(path) {
		t.Error("Destination should be locked")
	}

	lm.Unlock(path)

	if lm.IsLocked(path) {
		t.Error("Destination should not be locked after unlock")
	}
}

func TestWithLock(t *testing.T) {
	lm := NewLockManager()
	path := "output/1HGCM82633A004352/Facturi/factura.pdf"

	executed := false
	err := lm.WithLock(path, func() error {
		executed = true
		return nil
	})

	if err != nil {
		t.Errorf("WithLock failed: %v", err)
	}

	if !executed {
		t.Error("Function was not executed")
	}

	if lm.IsLocked(path) {
		t.Error("Destination should be unlocked after WithLock")
	}
}

func TestConcurrentLocks(t *testing.T) {
	lm := NewLockManager()
	path := "output/1HGCM82633A004352/Facturi/factura.pdf"

	var counter int
	var wg sync.WaitGroup

	// Simulate 10 copy workers racing to resolve the same destination.
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := lm.WithLock(path, func() error {
				temp := counter
				time.Sleep(1 * time.Millisecond)
				counter = temp + 1
				return nil
			})

			if err != nil {
				t.Errorf("WithLock failed: %v", err)
			}
		}()
	}

	wg.Wait()

	if counter != 10 {
		t.Errorf("Expected counter to be 10, got %d", counter)
	}
}

func TestMultipleFiles(t *testing.T) {
	lm := NewLockManager()

	paths := []string{
		"output/1HGCM82633A004352/Facturi/factura.pdf",
		"output/1HGCM82633A004352/CASCO/casco.pdf",
		"output/2T9KE103XC1234567/RCA/rca.pdf",
	}

	for _, path := range paths {
		if err := lm.Lock(path); err != nil {
			t.Errorf("Lock failed for %s: %v", path, err)
		}
	}

	for _, path := range paths {
		if !lm.IsLocked(path) {
			t.Errorf("Destination %s should be locked", path)
		}
	}

	for _, path := range paths {
		if err := lm.Unlock(path); err != nil {
			t.Errorf("Unlock failed for %s: %v", path, err)
		}
	}

	for _, path := range paths {
		if lm.IsLocked(path) {
			t.Errorf("Destination %s should not be locked", path)
		}
	}
}

func TestCleanupStale(t *testing.T) {
	lm := NewLockManager()

	paths := []string{
		"output/1HGCM82633A004352/Facturi/factura.pdf",
		"output/1HGCM82633A004352/CASCO/casco.pdf",
		"output/2T9KE103XC1234567/RCA/rca.pdf",
	}
	for _, path := range paths {
		lm.Lock(path)
		lm.Unlock(path)
	}

	time.Sleep(100 * time.Millisecond)

	removed := lm.CleanupStale(50 * time.Millisecond)

	if removed != 3 {
		t.Errorf("Expected 3 stale locks to be removed, got %d", removed)
	}

	if lm.Size() != 0 {
		t.Errorf("Expected 0 locks after cleanup, got %d", lm.Size())
	}
}

func TestSize(t *testing.T) {
	lm := NewLockManager()

	if lm.Size() != 0 {
		t.Errorf("Expected size 0, got %d", lm.Size())
	}

	lm.Lock("output/1HGCM82633A004352/Facturi/factura.pdf")
	lm.Lock("output/1HGCM82633A004352/CASCO/casco.pdf")

	if lm.Size() != 2 {
		t.Errorf("Expected size 2, got %d", lm.Size())
	}
}
