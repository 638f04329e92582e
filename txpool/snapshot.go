package txpool

import (
	"sort"
)

type snapshot struct {
	id    int
	state *poolState
}

// snapshotManager keeps the live snapshots of a pool, sorted by id
type snapshotManager struct {
	nextID    int
	snapshots []snapshot
}

// take retains s and returns the id it was stored under
func (m *snapshotManager) take(s *poolState) int {
	id := m.nextID
	m.nextID++

	m.snapshots = append(m.snapshots, snapshot{id: id, state: s})

	return id
}

// revert returns the state stored under id and discards every
// snapshot taken after it. The snapshot itself stays live.
func (m *snapshotManager) revert(id int) (*poolState, error) {
	i := sort.Search(len(m.snapshots), func(i int) bool {
		return m.snapshots[i].id >= id
	})

	if i == len(m.snapshots) || m.snapshots[i].id != id {
		return nil, ErrSnapshotNotFound
	}

	// release the discarded states
	for j := i + 1; j < len(m.snapshots); j++ {
		m.snapshots[j] = snapshot{}
	}

	m.snapshots = m.snapshots[:i+1]

	return m.snapshots[i].state, nil
}

// len returns the number of live snapshots
func (m *snapshotManager) len() int {
	return len(m.snapshots)
}
