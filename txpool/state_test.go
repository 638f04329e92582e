package txpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPolygon/polygon-devpool/types"
)

func TestStateTxnAdmit(t *testing.T) {
	t.Parallel()

	base := newPoolState(defaultBlockGas)
	txn := base.txn()

	for i, nonce := range []uint64{2, 0, 1} {
		r := newRecord(addr1, nonce, 1, uint64(i))
		r.tx.ComputeHash()

		assert.Nil(t, txn.admit(r))
	}

	assert.Equal(t, []uint64{0, 1, 2}, nonces(txsOf(txn.senderBucket(addr1))))
	assert.Empty(t, txn.senderBucket(addr2))

	replacement := newRecord(addr1, 1, 5, 3)
	replacement.tx.ComputeHash()

	replaced := txn.admit(replacement)
	require.NotNil(t, replaced)
	assert.Equal(t, uint64(2), replaced.arrival)

	s := txn.commit()
	assert.Equal(t, 3, s.index.len())

	_, ok := s.index.get(replaced.tx.Hash)
	assert.False(t, ok)

	// the source state is untouched
	assert.Nil(t, base.get(addr1))
	assert.Equal(t, 0, base.index.len())
}

func TestStateTxnRemoveWhereOrder(t *testing.T) {
	t.Parallel()

	txn := newPoolState(defaultBlockGas).txn()

	arrival := uint64(0)
	for _, addr := range []types.Address{addr3, addr1, addr2} {
		for _, nonce := range []uint64{1, 0} {
			r := newRecord(addr, nonce, 1, arrival)
			r.tx.ComputeHash()
			txn.admit(r)

			arrival++
		}
	}

	removed := txn.removeWhere(func(*record) bool { return true })

	assert.Equal(t,
		[]slot{{addr1, 0}, {addr1, 1}, {addr2, 0}, {addr2, 1}, {addr3, 0}, {addr3, 1}},
		slots(txsOf(removed)),
	)
	assert.Empty(t, txn.senders())

	s := txn.commit()
	assert.Equal(t, 0, s.index.len())
	assert.Equal(t, 0, s.pending+s.queued)
}

func TestStateTxnDiscard(t *testing.T) {
	t.Parallel()

	txn := newPoolState(defaultBlockGas).txn()

	r := newRecord(addr1, 0, 1, 0)
	r.tx.ComputeHash()
	txn.admit(r)
	txn.classify(addr1, 0)

	base := txn.commit()
	assert.Equal(t, 1, base.pending)

	// staged removals are invisible until commit
	discarded := base.txn()
	discarded.removeWhere(func(*record) bool { return true })

	assert.NotNil(t, base.get(addr1))
	assert.Equal(t, 1, base.index.len())
}
