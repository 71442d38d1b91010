package state

import (
	"slices"

	"github.com/rcliao/patchdash/internal/model"
)

// Collection names a remotely loaded collection.
type Collection string

const (
	CollStats       Collection = "stats"
	CollBestHour    Collection = "best_hour"
	CollNetworkLoad Collection = "network_load"
	CollCrew        Collection = "crew"
	CollPatches     Collection = "patches"
)

// Ticket identifies one issued read of a collection.
type Ticket struct {
	Collection Collection
	seq        uint64
}

// BeginLoad issues a ticket for a read of c. Commits with older tickets than the last
// committed one for c are dropped, so the newest-issued read wins.
func (st *Store) BeginLoad(c Collection) Ticket {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.issued[c]++
	return Ticket{Collection: c, seq: st.issued[c]}
}

func (st *Store) commit(t Ticket, c Collection, apply func()) bool {
	if t.Collection != c || t.seq == 0 {
		return false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if t.seq < st.committed[c] {
		return false
	}
	st.committed[c] = t.seq
	apply()
	st.changed()
	return true
}

// CommitStats replaces the aggregate statistics.
func (st *Store) CommitStats(t Ticket, s model.Stats) bool {
	s.LowLoadHours = slices.Clone(s.LowLoadHours)
	return st.commit(t, CollStats, func() { st.s.Stats = &s })
}

// CommitBestHour replaces the best patching hour.
func (st *Store) CommitBestHour(t Ticket, b model.BestHour) bool {
	return st.commit(t, CollBestHour, func() { st.s.BestHour = &b })
}

// CommitNetworkLoads replaces the network load series.
func (st *Store) CommitNetworkLoads(t Ticket, v []model.NetworkLoadSample) bool {
	v = slices.Clone(v)
	return st.commit(t, CollNetworkLoad, func() { st.s.NetworkLoads = v })
}

// CommitCrew replaces the crew roster.
func (st *Store) CommitCrew(t Ticket, v []model.CrewMember) bool {
	v = slices.Clone(v)
	return st.commit(t, CollCrew, func() { st.s.Crew = v })
}

// CommitPatches replaces the patch backlog.
func (st *Store) CommitPatches(t Ticket, v []model.Patch) bool {
	v = slices.Clone(v)
	return st.commit(t, CollPatches, func() { st.s.Patches = v })
}
