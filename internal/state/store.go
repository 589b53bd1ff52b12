// Package state holds the single current indicator reading shared between
// the refresh loop and the menubar presenter.
package state

import (
	"sync"

	"github.com/dwightmulcahy/PeakHODLer/internal/coinglass"
)

// Snapshot is the latest poll outcome available to the presenter.
type Snapshot struct {
	Reading             coinglass.Reading
	HasReading          bool
	LastGood            coinglass.Reading // most recent StatusOK reading
	HasGood             bool
	ConsecutiveFailures int
}

// Store coordinates concurrent access to the snapshot. Only the refresh
// loop writes; the presenter reads copies.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the current reading wholesale. Failed readings keep the
// last good reading available for display context and bump the failure
// counter.
func (s *Store) Update(r coinglass.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Reading = r
	s.snapshot.HasReading = true
	if r.OK() {
		s.snapshot.LastGood = r
		s.snapshot.HasGood = true
		s.snapshot.ConsecutiveFailures = 0
	} else {
		s.snapshot.ConsecutiveFailures++
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Reading.Triggered = cloneIndicators(s.snapshot.Reading.Triggered)
	snap.LastGood.Triggered = cloneIndicators(s.snapshot.LastGood.Triggered)
	return snap
}

func cloneIndicators(items []coinglass.Indicator) []coinglass.Indicator {
	if len(items) == 0 {
		return nil
	}
	dup := make([]coinglass.Indicator, len(items))
	copy(dup, items)
	return dup
}
