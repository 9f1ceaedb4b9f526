package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func TestReconcileOrdersByTimestamp(t *testing.T) {
	baseline := []Entry{{ID: "1", Text: "from history", Timestamp: ts(100)}}
	live := []Entry{{ID: "2", Text: "from live", Timestamp: ts(50)}}

	out := Reconcile(baseline, live)

	require.Len(t, out, 2)
	// The live message is logically older even though it was received second
	assert.Equal(t, "2", out[0].ID)
	assert.Equal(t, "1", out[1].ID)
}

func TestReconcileDedupBaselineWins(t *testing.T) {
	baseline := []Entry{{ID: "1", Text: "persisted copy", Timestamp: ts(100)}}
	live := []Entry{{ID: "1", Text: "live echo", Timestamp: ts(200)}}

	out := Reconcile(baseline, live)

	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "persisted copy", out[0].Text)
	assert.Equal(t, ts(100), out[0].Timestamp)
}

func TestReconcileIsIdempotent(t *testing.T) {
	baseline := []Entry{
		{ID: "a", Timestamp: ts(10)},
		{ID: "b", Timestamp: ts(30)},
	}
	live := []Entry{
		{ID: "c", Timestamp: ts(20)},
		{ID: "a", Timestamp: ts(40)},
	}

	first := Reconcile(baseline, live)
	second := Reconcile(baseline, live)

	assert.Equal(t, first, second)
}

func TestReconcileStableOnEqualTimestamps(t *testing.T) {
	baseline := []Entry{
		{ID: "a", Timestamp: ts(10)},
		{ID: "b", Timestamp: ts(10)},
	}
	live := []Entry{
		{ID: "c", Timestamp: ts(10)},
	}

	out := Reconcile(baseline, live)

	require.Len(t, out, 3)
	// Ties keep concatenation order: baseline first, then live
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestReconcileMonotonicGrowth(t *testing.T) {
	baseline := []Entry{{ID: "1", Timestamp: ts(100)}}
	live := []Entry{{ID: "2", Timestamp: ts(150)}}
	grown := append(append([]Entry{}, live...), Entry{ID: "3", Timestamp: ts(50)})

	before := Reconcile(baseline, live)
	after := Reconcile(baseline, grown)

	ids := func(entries []Entry) map[string]bool {
		m := make(map[string]bool)
		for _, e := range entries {
			m[e.ID] = true
		}
		return m
	}

	afterIDs := ids(after)
	for id := range ids(before) {
		assert.True(t, afterIDs[id], "entry %s disappeared after live set grew", id)
	}
	assert.Len(t, after, 3)
}

func TestReconcileNoDuplicateIDs(t *testing.T) {
	baseline := []Entry{
		{ID: "x", Timestamp: ts(1)},
		{ID: "y", Timestamp: ts(2)},
		{ID: "x", Timestamp: ts(3)},
	}
	live := []Entry{
		{ID: "y", Timestamp: ts(4)},
		{ID: "z", Timestamp: ts(5)},
	}

	out := Reconcile(baseline, live)

	seen := make(map[string]int)
	for _, e := range out {
		seen[e.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s appears %d times", id, n)
	}
	assert.Len(t, out, 3)
}

func TestReconcileZeroTimestampSortsLast(t *testing.T) {
	baseline := []Entry{{ID: "broken"}} // no timestamp
	live := []Entry{{ID: "ok", Timestamp: ts(100)}}

	out := Reconcile(baseline, live)

	require.Len(t, out, 2)
	assert.Equal(t, "ok", out[0].ID)
	assert.Equal(t, "broken", out[1].ID)
	assert.False(t, out[1].Timestamp.IsZero())
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	baseline := []Entry{{ID: "1", Timestamp: ts(300)}}
	live := []Entry{{ID: "2", Timestamp: ts(100)}}

	Reconcile(baseline, live)

	assert.Equal(t, "1", baseline[0].ID)
	assert.Equal(t, "2", live[0].ID)
	assert.Equal(t, ts(300), baseline[0].Timestamp)
}

func TestReconcileByCustomKey(t *testing.T) {
	// Same logical message persisted and echoed live under different IDs
	baseline := []Entry{{ID: "db-1", SenderName: "ana", Text: "oi", Timestamp: ts(100)}}
	live := []Entry{{ID: "1700000000000-abc", SenderName: "ana", Text: "oi", Timestamp: ts(101)}}

	out := ReconcileBy(baseline, live, func(e Entry) string {
		return e.SenderName + "|" + e.Text
	})

	require.Len(t, out, 1)
	assert.Equal(t, "db-1", out[0].ID)
}

func TestNewSyntheticIDUnique(t *testing.T) {
	now := time.Now()
	a := NewSyntheticID(now)
	b := NewSyntheticID(now)

	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}

func TestOrderInvariant(t *testing.T) {
	baseline := []Entry{
		{ID: "1", Timestamp: ts(500)},
		{ID: "2", Timestamp: ts(100)},
		{ID: "3", Timestamp: ts(300)},
	}
	live := []Entry{
		{ID: "4", Timestamp: ts(200)},
		{ID: "5", Timestamp: ts(400)},
	}

	out := Reconcile(baseline, live)

	for i := 1; i < len(out); i++ {
		assert.False(t, out[i].Timestamp.Before(out[i-1].Timestamp),
			"entry %d sorts before its predecessor", i)
	}
}
