package txpool

import (
	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/0xPolygon/polygon-devpool/types"
)

// Lookup map used to find transactions present in the pool.
// Keys are the transaction hash followed by the sender address, so
// unsigned transactions sharing a hash across senders stay distinct.
type lookupMap struct {
	tree *iradix.Tree
}

func newLookupMap() lookupMap {
	return lookupMap{tree: iradix.New()}
}

func lookupKey(hash types.Hash, from types.Address) []byte {
	key := make([]byte, 0, types.HashLength+types.AddressLength)
	key = append(key, hash.Bytes()...)

	return append(key, from.Bytes()...)
}

// get returns the first record held under the given hash
func (m lookupMap) get(hash types.Hash) (*record, bool) {
	var found *record

	m.tree.Root().WalkPrefix(hash.Bytes(), func(_ []byte, v interface{}) bool {
		found, _ = v.(*record)

		return true
	})

	return found, found != nil
}

// len returns the number of indexed records
func (m lookupMap) len() int {
	return m.tree.Len()
}

func (m lookupMap) txn() *lookupTxn {
	return &lookupTxn{txn: m.tree.Txn()}
}

type lookupTxn struct {
	txn *iradix.Txn
}

func (t *lookupTxn) add(r *record) {
	t.txn.Insert(lookupKey(r.tx.Hash, r.tx.From), r)
}

func (t *lookupTxn) remove(records ...*record) {
	for _, r := range records {
		t.txn.Delete(lookupKey(r.tx.Hash, r.tx.From))
	}
}

// find returns every record held under the given hash
func (t *lookupTxn) find(hash types.Hash) []*record {
	var found []*record

	t.txn.Root().WalkPrefix(hash.Bytes(), func(_ []byte, v interface{}) bool {
		if r, ok := v.(*record); ok {
			found = append(found, r)
		}

		return false
	})

	return found
}

func (t *lookupTxn) commit() lookupMap {
	return lookupMap{tree: t.txn.Commit()}
}
