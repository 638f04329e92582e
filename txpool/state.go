package txpool

import (
	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/0xPolygon/polygon-devpool/types"
)

// poolState is an immutable version of the pool contents.
// Snapshots retain poolState pointers, mutations go through a stateTxn
// and publish a new poolState on commit.
type poolState struct {
	// sender address -> *account
	accounts *iradix.Tree

	// lookup index of every held record
	index lookupMap

	blockGasLimit uint64

	// counters computed on commit
	pending int
	queued  int
}

func newPoolState(blockGasLimit uint64) *poolState {
	return &poolState{
		accounts:      iradix.New(),
		index:         newLookupMap(),
		blockGasLimit: blockGasLimit,
	}
}

// get returns the account of the given sender, nil if it holds nothing
func (s *poolState) get(addr types.Address) *account {
	v, ok := s.accounts.Get(addr.Bytes())
	if !ok {
		return nil
	}

	a, _ := v.(*account)

	return a
}

// walk visits every sender in address order
func (s *poolState) walk(fn func(addr types.Address, a *account)) {
	s.accounts.Root().Walk(func(k []byte, v interface{}) bool {
		a, _ := v.(*account)
		fn(types.BytesToAddress(k), a)

		return false
	})
}

func (s *poolState) txn() *stateTxn {
	return &stateTxn{
		accounts:      s.accounts.Txn(),
		index:         s.index.txn(),
		blockGasLimit: s.blockGasLimit,
	}
}

// stateTxn stages changes on top of a poolState.
// Dropping a stateTxn without commit leaves the source state untouched.
type stateTxn struct {
	accounts      *iradix.Txn
	index         *lookupTxn
	blockGasLimit uint64
}

func (t *stateTxn) get(addr types.Address) *account {
	v, ok := t.accounts.Get(addr.Bytes())
	if !ok {
		return nil
	}

	a, _ := v.(*account)

	return a
}

func (t *stateTxn) set(addr types.Address, a *account) {
	if a.length() == 0 {
		t.accounts.Delete(addr.Bytes())

		return
	}

	t.accounts.Insert(addr.Bytes(), a)
}

// senders returns every sender holding a record, in address order
func (t *stateTxn) senders() []types.Address {
	var senders []types.Address

	t.accounts.Root().Walk(func(k []byte, _ interface{}) bool {
		senders = append(senders, types.BytesToAddress(k))

		return false
	})

	return senders
}

// admit inserts r at (sender, nonce) and returns the record it replaced
func (t *stateTxn) admit(r *record) *record {
	a, replaced := t.get(r.tx.From).insert(r)

	if replaced != nil {
		t.index.remove(replaced)
	}

	t.index.add(r)
	t.set(r.tx.From, a)

	return replaced
}

// senderBucket returns the nonce ordered records of a sender
func (t *stateTxn) senderBucket(addr types.Address) []*record {
	a := t.get(addr)
	if a == nil {
		return nil
	}

	return a.records
}

// removeFrom removes the records of a single sender matching remove.
// Records are visited in nonce order.
func (t *stateTxn) removeFrom(addr types.Address, remove func(*record) bool) []*record {
	a := t.get(addr)
	if a == nil {
		return nil
	}

	kept, removed := a.filter(remove)
	if len(removed) == 0 {
		return nil
	}

	t.index.remove(removed...)
	t.set(addr, kept)

	return removed
}

// removeWhere removes every record matching remove. Senders are
// visited in address order and each bucket in nonce order.
func (t *stateTxn) removeWhere(remove func(*record) bool) []*record {
	var removed []*record

	for _, addr := range t.senders() {
		removed = append(removed, t.removeFrom(addr, remove)...)
	}

	return removed
}

// classify recomputes the pending prefix of a sender against its ledger nonce
func (t *stateTxn) classify(addr types.Address, nonce uint64) {
	if a := t.get(addr); a != nil {
		t.set(addr, a.classify(nonce))
	}
}

// commit publishes the staged changes as a new poolState
func (t *stateTxn) commit() *poolState {
	s := &poolState{
		accounts:      t.accounts.Commit(),
		index:         t.index.commit(),
		blockGasLimit: t.blockGasLimit,
	}

	s.walk(func(_ types.Address, a *account) {
		s.pending += a.promoted
		s.queued += a.length() - a.promoted
	})

	return s
}
