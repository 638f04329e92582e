package txpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, newMockStore())

	addTxs(t, pool,
		newTx(addr1, 0, validGasLimit),
		newTx(addr1, 2, validGasLimit),
	)

	pending := slots(pool.GetOrderedPendingTransactions())
	queued := slots(pool.GetOrderedQueuedTransactions())

	id := pool.MakeSnapshot()

	addTxs(t, pool, newTx(addr1, 1, validGasLimit), newTx(addr2, 0, validGasLimit))
	require.NoError(t, pool.SetBlockGasLimit(validGasLimit))

	assert.Len(t, pool.GetOrderedPendingTransactions(), 4)

	require.NoError(t, pool.RevertToSnapshot(id))

	assert.Equal(t, pending, slots(pool.GetOrderedPendingTransactions()))
	assert.Equal(t, queued, slots(pool.GetOrderedQueuedTransactions()))
	assert.Equal(t, defaultBlockGas, pool.GetBlockGasLimit())
	assert.True(t, pool.HasPendingTransactions())

	_, ok := pool.GetTx(newTx(addr2, 0, validGasLimit).ComputeHash().Hash)
	assert.False(t, ok)
	assert.NoError(t, pool.ValidateInvariants())
}

func TestSnapshotIDs(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, newMockStore())

	first := pool.MakeSnapshot()

	addTxs(t, pool, newTx(addr1, 0, validGasLimit))

	second := pool.MakeSnapshot()
	assert.Greater(t, second, first)

	// discarded ids are never handed out again
	require.NoError(t, pool.RevertToSnapshot(first))

	third := pool.MakeSnapshot()
	assert.Greater(t, third, second)
}

func TestRevertToSnapshotErrors(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, newMockStore())

	assert.ErrorIs(t, pool.RevertToSnapshot(0), ErrSnapshotNotFound)
	assert.EqualError(t, pool.RevertToSnapshot(-1), "There's no snapshot with such ID")

	first := pool.MakeSnapshot()
	second := pool.MakeSnapshot()
	third := pool.MakeSnapshot()

	assert.ErrorIs(t, pool.RevertToSnapshot(third+1), ErrSnapshotNotFound)

	require.NoError(t, pool.RevertToSnapshot(second))

	// later snapshots are discarded, the target stays live
	assert.ErrorIs(t, pool.RevertToSnapshot(third), ErrSnapshotNotFound)
	assert.NoError(t, pool.RevertToSnapshot(second))
	assert.NoError(t, pool.RevertToSnapshot(first))
	assert.ErrorIs(t, pool.RevertToSnapshot(second), ErrSnapshotNotFound)
}

func TestSnapshotUnaffectedByLaterMutations(t *testing.T) {
	t.Parallel()

	pool := newTestPool(t, newMockStore())

	addTxs(t, pool, newTx(addr1, 0, validGasLimit), newTx(addr1, 1, validGasLimit))

	id := pool.MakeSnapshot()

	// evicts both records, then replaces nonce 0
	require.NoError(t, pool.SetBlockGasLimit(1))
	require.NoError(t, pool.SetBlockGasLimit(defaultBlockGas))
	addTxs(t, pool, newPricedTx(addr1, 0, validGasLimit, 9))

	require.NoError(t, pool.RevertToSnapshot(id))

	pending := pool.GetOrderedPendingTransactions()
	require.Len(t, pending, 2)
	assert.Equal(t, int64(1), pending[0].GasPrice.Int64())
}

func TestRevertRestoresClassificationVerbatim(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	pool := newTestPool(t, store)

	addTxs(t, pool, newTx(addr1, 0, validGasLimit), newTx(addr1, 1, validGasLimit))

	id := pool.MakeSnapshot()

	// the ledger moves on, the revert does not look at it
	store.setNonce(addr1, 1)
	require.NoError(t, pool.Resync())
	assert.Equal(t, []uint64{1}, nonces(pool.GetOrderedPendingTransactions()))

	require.NoError(t, pool.RevertToSnapshot(id))
	assert.Equal(t, []uint64{0, 1}, nonces(pool.GetOrderedPendingTransactions()))

	// until the next resync
	require.NoError(t, pool.Resync())
	assert.Equal(t, []uint64{1}, nonces(pool.GetOrderedPendingTransactions()))
}

func TestSnapshotManager(t *testing.T) {
	t.Parallel()

	var m snapshotManager

	states := []*poolState{newPoolState(1), newPoolState(2), newPoolState(3)}
	for i, s := range states {
		assert.Equal(t, i, m.take(s))
	}

	s, err := m.revert(1)
	require.NoError(t, err)
	assert.Same(t, states[1], s)
	assert.Equal(t, 2, m.len())

	assert.Equal(t, 3, m.take(states[2]))
	assert.Equal(t, 3, m.len())

	_, err = m.revert(2)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
