// Package executor carries out a planned ledger: creating folders, copying
// files, and recording each outcome back onto the ledger's Change entries
// plus a streaming JSONL audit log. Grounded on the original's
// Ledger.execute/_exec_copy/_safe_dest/_log_change.
package executor

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/AlexandruDodita/vinorg/internal/ledger"
	"github.com/AlexandruDodita/vinorg/internal/progress"
	"github.com/AlexandruDodita/vinorg/internal/rename"
	"github.com/AlexandruDodita/vinorg/pkg/filelock"
	"github.com/AlexandruDodita/vinorg/pkg/fileutil"
)

// retryAttempts/retryBaseDelay govern the backoff loop for a copy that fails
// because the destination is transiently locked by another process.
const (
	retryAttempts  = 5
	retryBaseDelay = 100 * time.Millisecond
)

var numberedSuffixRe = regexp.MustCompile(`^(.+?)_(\d+)$`)

// Options controls one Execute run.
type Options struct {
	DryRun    bool
	Workers   int
	JSONLPath string

	// ProgressTo, when non-nil, receives a live copy_file progress bar.
	ProgressTo io.Writer
}

// Stats tallies what happened across every change.
type Stats struct {
	Done    int
	Skipped int
	Failed  int
}

// auditLog is the streaming JSONL writer, guarded by a mutex since batches
// of copies run concurrently and each worker logs its own outcome.
type auditLog struct {
	mu sync.Mutex
	w  io.WriteCloser
}

func openAuditLog(path string) (*auditLog, error) {
	if path == "" {
		return &auditLog{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &auditLog{w: f}, nil
}

func (a *auditLog) log(c *ledger.Change) {
	if a.w == nil {
		return
	}
	line, err := json.Marshal(c)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.w.Write(line)
	a.w.Write([]byte("\n"))
	if f, ok := a.w.(*os.File); ok {
		f.Sync()
	}
}

func (a *auditLog) close() {
	if a.w != nil {
		a.w.Close()
	}
}

// Execute carries out every change in led in order, batching consecutive
// copy_file entries into a worker pool of size opts.Workers (entries of any
// other action run sequentially between batches, matching the original's
// in-order batching rule). In dry-run mode nothing touches disk; every
// status stays "planned".
func Execute(led *ledger.Ledger, opts Options) (Stats, error) {
	var stats Stats

	audit, err := openAuditLog(opts.JSONLPath)
	if err != nil {
		return stats, err
	}
	defer audit.close()

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	locks := filelock.NewLockManager()

	var bar *progress.Bar
	if opts.ProgressTo != nil && !opts.DryRun {
		if copies := countCopies(led.Changes); copies > 0 {
			bar = progress.NewBar(int64(copies), "copying", opts.ProgressTo)
		}
	}

	total := len(led.Changes)
	i := 0
	for i < total {
		c := led.Changes[i]

		if workers > 1 && c.Action == ledger.ActionCopyFile {
			var batch []*ledger.Change
			for i < total && led.Changes[i].Action == ledger.ActionCopyFile {
				batch = append(batch, led.Changes[i])
				i++
			}
			if opts.DryRun {
				continue
			}
			runBatch(batch, workers, audit, locks, &stats, bar)
			continue
		}

		i++
		if opts.DryRun {
			continue
		}

		switch c.Action {
		case ledger.ActionCreateFolder:
			if err := os.MkdirAll(c.Destination, 0o755); err != nil {
				c.Status = ledger.StatusFailed
			} else {
				c.Status = ledger.StatusDone
			}
			audit.log(c)
			countStatus(&stats, c.Status)
		case ledger.ActionCopyFile:
			execCopy(c, audit, locks)
			countStatus(&stats, c.Status)
			if bar != nil {
				bar.Add(1)
			}
		}
	}

	if bar != nil {
		bar.Finish()
	}

	return stats, nil
}

func countCopies(changes []*ledger.Change) int {
	n := 0
	for _, c := range changes {
		if c.Action == ledger.ActionCopyFile {
			n++
		}
	}
	return n
}

func runBatch(batch []*ledger.Change, workers int, audit *auditLog, locks *filelock.LockManager, stats *Stats, bar *progress.Bar) {
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, c := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(c *ledger.Change) {
			defer wg.Done()
			defer func() { <-sem }()
			execCopy(c, audit, locks)
			mu.Lock()
			countStatus(stats, c.Status)
			mu.Unlock()
			if bar != nil {
				bar.Add(1)
			}
		}(c)
	}
	wg.Wait()
}

func countStatus(stats *Stats, status ledger.Status) {
	switch status {
	case ledger.StatusDone:
		stats.Done++
	case ledger.StatusSkipped:
		stats.Skipped++
	case ledger.StatusFailed:
		stats.Failed++
	}
}

// execCopy performs one planned copy, resolving destination collisions and
// retrying transient lock errors with exponential backoff. The collision
// check and the write that follows it are held under a per-destination lock
// so two workers in the same batch can never both resolve safeDest against
// the same starting path and then write past each other.
func execCopy(c *ledger.Change, audit *auditLog, locks *filelock.LockManager) {
	if _, err := os.Stat(c.Source); err != nil {
		c.Status = ledger.StatusSkipped
		audit.log(c)
		return
	}

	if err := os.MkdirAll(filepath.Dir(c.Destination), 0o755); err != nil {
		c.Status = ledger.StatusFailed
		audit.log(c)
		return
	}

	locks.WithLock(c.Destination, func() error {
		actual, action := safeDest(c.Source, c.Destination)
		if action == "skip" {
			c.Status = ledger.StatusSkipped
			audit.log(c)
			return nil
		}
		if action == "renamed" {
			c.Destination = actual
		}

		var lastErr error
		for attempt := 0; attempt < retryAttempts; attempt++ {
			if err := fileutil.CopyFile(c.Source, actual); err != nil {
				lastErr = err
				if isLockedErr(err) {
					time.Sleep(retryBaseDelay * time.Duration(1<<uint(attempt)))
					continue
				}
				break
			}
			c.Status = ledger.StatusDone
			audit.log(c)
			return nil
		}
		_ = lastErr
		c.Status = ledger.StatusFailed
		audit.log(c)
		return nil
	})
}

// safeDest resolves a destination collision: if nothing exists there, the
// destination is used as-is ("ok"); if the existing file is byte-identical
// to src, the copy is skipped ("skip"); otherwise a numbered suffix
// (stripping any pre-existing one first) is tried until a free name or an
// identical match is found.
func safeDest(src, dst string) (string, string) {
	if _, err := os.Stat(dst); err != nil {
		return dst, "ok"
	}
	if rename.FilesIdentical(src, dst) {
		return dst, "skip"
	}

	dir := filepath.Dir(dst)
	ext := filepath.Ext(dst)
	stem := strings.TrimSuffix(filepath.Base(dst), ext)
	baseStem := stem
	if m := numberedSuffixRe.FindStringSubmatch(stem); m != nil {
		baseStem = m[1]
	}

	for i := 1; i < 10000; i++ {
		candidate := filepath.Join(dir, baseStem+"_"+strconv.Itoa(i)+ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate, "renamed"
		}
		if rename.FilesIdentical(src, candidate) {
			return candidate, "skip"
		}
	}
	return dst, "ok"
}


// isLockedErr reports whether err looks like a transient "file in use" error
// worth retrying, mirroring the original's WinError 32 / "being used" check.
func isLockedErr(err error) bool {
	if errors.Is(err, os.ErrPermission) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "being used")
}
