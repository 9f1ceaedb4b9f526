package timeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// MediaKind identifies the type of media attached to an entry
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Media is an optional attachment carried by a timeline entry
type Media struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
}

// Entry is a single element of the unified room timeline. Entries come from
// two sources: the persisted history (store-assigned IDs) and the live stream
// (which may carry no ID at all, see NewSyntheticID). An Entry is never
// mutated after insertion.
type Entry struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SenderName string    `json:"senderName"`
	Timestamp  time.Time `json:"timestamp"`
	Media      *Media    `json:"media,omitempty"`
}

// NewSyntheticID generates an identifier for live entries that arrived without
// a store-assigned one. The receipt time keeps IDs roughly sortable; the uuid
// suffix avoids collisions between events received in the same millisecond.
// Note this ID is generated independently per receiver, so the same logical
// message can appear under two different IDs when it is both persisted and
// echoed over the live channel.
func NewSyntheticID(receivedAt time.Time) string {
	return fmt.Sprintf("%d-%s", receivedAt.UnixMilli(), uuid.NewString())
}

// Reconcile merges the baseline (history) and live entry sets into a single
// deduplicated sequence ordered by timestamp ascending.
//
// Duplicates are resolved by ID, first occurrence wins: because the baseline
// is concatenated first, the persisted copy of a message takes priority over
// its live echo. The sort is stable, so entries with equal timestamps keep
// their input order and repeated calls with the same inputs produce the same
// output. Inputs are never mutated.
func Reconcile(baseline, live []Entry) []Entry {
	return ReconcileBy(baseline, live, func(e Entry) string { return e.ID })
}

// ReconcileBy is Reconcile with a caller-supplied dedup key. The default
// ID-based key cannot catch a message persisted under one ID and echoed live
// under a synthetic one; callers that need content-based matching can supply
// e.g. a sender+text+time-bucket key here.
func ReconcileBy(baseline, live []Entry, key func(Entry) string) []Entry {
	merged := make([]Entry, 0, len(baseline)+len(live))
	seen := make(map[string]struct{}, len(baseline)+len(live))

	for _, src := range [][]Entry{baseline, live} {
		for _, e := range src {
			k := key(e)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}

			// A missing timestamp must not break the merge; substitute the
			// current time so the entry sorts last instead.
			if e.Timestamp.IsZero() {
				e.Timestamp = time.Now()
			}
			merged = append(merged, e)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})

	return merged
}
