package txpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accountNonces(a *account) []uint64 {
	res := []uint64{}
	for _, r := range a.records {
		res = append(res, r.tx.Nonce)
	}

	return res
}

func TestAccountInsert(t *testing.T) {
	t.Parallel()

	var a *account

	for i, nonce := range []uint64{3, 1, 2, 5} {
		next, replaced := a.insert(newRecord(addr1, nonce, 1, uint64(i)))
		assert.Nil(t, replaced)

		a = next
	}

	assert.Equal(t, []uint64{1, 2, 3, 5}, accountNonces(a))

	before := a

	a, replaced := a.insert(newRecord(addr1, 2, 1, 10))
	require.NotNil(t, replaced)
	// nonce 2 was the third insert
	assert.Equal(t, uint64(2), replaced.arrival)
	assert.Equal(t, []uint64{1, 2, 3, 5}, accountNonces(a))

	r, _ := a.find(2)
	assert.Equal(t, uint64(10), a.records[r].arrival)

	// the previous version is untouched
	r, _ = before.find(2)
	assert.Equal(t, uint64(2), before.records[r].arrival)
}

func TestAccountFilterAndClassify(t *testing.T) {
	t.Parallel()

	a := &account{}
	for i, nonce := range []uint64{4, 5, 6, 8} {
		a, _ = a.insert(newRecord(addr1, nonce, 1, uint64(i)))
	}

	a = a.classify(4)
	assert.Equal(t, 3, a.promoted)
	assert.Equal(t, []uint64{4, 5, 6}, nonces(txsOf(a.pending())))
	assert.Equal(t, []uint64{8}, nonces(txsOf(a.queued())))

	same, removed := a.filter(func(*record) bool { return false })
	assert.Same(t, a, same)
	assert.Empty(t, removed)

	kept, removed := a.filter(func(r *record) bool { return r.tx.Nonce == 5 })
	assert.Len(t, removed, 1)
	assert.Equal(t, []uint64{4, 6, 8}, accountNonces(kept))

	kept = kept.classify(4)
	assert.Equal(t, 1, kept.promoted)
	assert.Equal(t, uint64(4), kept.nextNonce)

	assert.Same(t, kept, kept.classify(4))
}
