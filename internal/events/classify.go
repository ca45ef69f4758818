package events

import (
	"sort"
	"time"
)

// ArchiveWindow is the grace period after an event starts before it
// moves to the archive.
const ArchiveWindow = 48 * time.Hour

// Phase buckets an event relative to a point in time. Every event is in
// exactly one phase; there is no third state.
type Phase string

const (
	PhaseActive   Phase = "active"
	PhaseArchived Phase = "archived"
)

// Classify is a pure, total function: archived iff now is strictly past
// startAt plus the archive window. The boundary instant itself is active.
func Classify(e Event, now time.Time) Phase {
	if now.After(e.StartAt.Add(ArchiveWindow)) {
		return PhaseArchived
	}
	return PhaseActive
}

// Partition splits events into active and archived groups at query time.
// Active is sorted soonest first, archived most recent first. The result
// is never cached: re-querying later may legitimately move an event
// between groups.
func Partition(evts []Event, now time.Time) (active, archived []Event) {
	for _, e := range evts {
		if Classify(e, now) == PhaseArchived {
			archived = append(archived, e)
		} else {
			active = append(active, e)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].StartAt.Before(active[j].StartAt)
	})
	sort.SliceStable(archived, func(i, j int) bool {
		return archived[i].StartAt.After(archived[j].StartAt)
	})
	return active, archived
}
