// Package ledger holds the planned change set produced by the planner and
// rename/dedup passes, and streams it to an append-only JSONL log plus a
// one-shot JSON summary as the executor carries it out. It is the Go
// counterpart of the teacher's internal/transaction manager, generalized
// from a whole-log rewrite to a streaming per-entry append.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Action is the kind of filesystem operation a Change records.
type Action string

const (
	ActionCreateFolder Action = "create_folder"
	ActionCopyFile     Action = "copy_file"
)

// Status is where a Change stands in its lifecycle.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Change is one planned (and eventually executed) filesystem operation.
type Change struct {
	Action       Action `json:"action"`
	Source       string `json:"source"`
	Destination  string `json:"destination"`
	Reason       string `json:"reason"`
	ParentFolder string `json:"parent_folder"`
	Vin          string `json:"vin"`
	Status       Status `json:"status"`
}

// PdfScan records one PDF pre-scan's discovered VINs, kept for diagnostics
// and for the summary JSON.
type PdfScan struct {
	Path string   `json:"path"`
	Vins []string `json:"vins"`
}

// Ledger accumulates planned Changes during planning (single-threaded), then
// is handed to the executor, which writes each Change's Status field and,
// when a destination collision forces a numbered name, its Destination field
// too — each Change is written by the one worker that handles it, so no
// additional locking is needed there. The
// planned-destination index enforces the idempotent-plan invariant: two
// copy_file entries never share a destination unless they also share a
// source, and a conflicting later entry is silently dropped.
type Ledger struct {
	mu           sync.Mutex
	Changes      []*Change
	Warnings     []string
	PdfScans     []PdfScan
	plannedDests map[string]string // destination -> source
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{plannedDests: make(map[string]string)}
}

// Add records a planned change. For copy_file actions, a destination that
// already has a different planned source is dropped silently (idempotent
// plan invariant); a destination with the same source is a harmless no-op
// duplicate and is also dropped without adding a second entry.
func (l *Ledger) Add(action Action, source, destination, reason, parentFolder, vin string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if action == ActionCopyFile {
		if existing, ok := l.plannedDests[destination]; ok {
			if existing == source {
				return
			}
			return
		}
		l.plannedDests[destination] = source
	}

	l.Changes = append(l.Changes, &Change{
		Action:       action,
		Source:       source,
		Destination:  destination,
		Reason:       reason,
		ParentFolder: parentFolder,
		Vin:          vin,
		Status:       StatusPlanned,
	})
}

// Warn appends an operator-facing warning message (unreadable directory,
// VIN-less folder, cross-copy limit hit, etc).
func (l *Ledger) Warn(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warnings = append(l.Warnings, msg)
}

// LogPdfScan records a PDF pre-scan result for the summary JSON.
func (l *Ledger) LogPdfScan(path string, vins []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.PdfScans = append(l.PdfScans, PdfScan{Path: path, Vins: vins})
}

// PlannedDestinations exposes the destination->source index, used by the
// rename pass to rebuild it after renaming/deduping entries in place.
func (l *Ledger) PlannedDestinations() map[string]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]string, len(l.plannedDests))
	for k, v := range l.plannedDests {
		out[k] = v
	}
	return out
}

// RebuildIndex replaces the planned-destination index wholesale, used after
// the rename/dedup pass changes Changes in place (removing, renaming
// destinations) so the index stays consistent with the slice.
func (l *Ledger) RebuildIndex() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.plannedDests = make(map[string]string, len(l.Changes))
	for _, c := range l.Changes {
		if c.Action == ActionCopyFile {
			l.plannedDests[c.Destination] = c.Source
		}
	}
}

// WriteJSON writes the one-shot summary: a timestamp, every change, and
// every warning collected so far.
func (l *Ledger) WriteJSON(path string, generatedAt string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := struct {
		Generated string    `json:"generated"`
		Changes   []*Change `json:"changes"`
		Warnings  []string  `json:"warnings"`
	}{
		Generated: generatedAt,
		Changes:   l.Changes,
		Warnings:  l.Warnings,
	}

	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling ledger summary: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing ledger summary %q: %w", path, err)
	}
	return nil
}
