package timeline

import (
	"sync"
	"time"
)

// View holds the two entry sets for a single room: the baseline loaded once
// from history and the live set that grows as push events arrive. The view
// only ever reads the sets when producing a snapshot; it never rewrites
// entries, which is what makes repeated snapshots safe and cheap.
type View struct {
	mu       sync.RWMutex
	baseline []Entry
	live     []Entry
}

// NewView creates an empty view for a room
func NewView() *View {
	return &View{}
}

// SetBaseline installs the history batch. It may be called after live entries
// have already arrived; Snapshot produces the correct order either way.
// The input slice is copied so the caller keeps ownership.
func (v *View) SetBaseline(entries []Entry) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.baseline = make([]Entry, len(entries))
	copy(v.baseline, entries)
}

// Append adds a single live entry. Entries arriving without a timestamp are
// stamped with the receipt time, and entries without an ID are given a
// synthetic one so they participate in dedup like any other entry.
func (v *View) Append(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.ID == "" {
		e.ID = NewSyntheticID(e.Timestamp)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.live = append(v.live, e)
}

// Snapshot returns the reconciled timeline. Safe to call on every update.
func (v *View) Snapshot() []Entry {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return Reconcile(v.baseline, v.live)
}

// Len reports the raw (pre-dedup) number of entries held by the view
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.baseline) + len(v.live)
}
