package txpool

import (
	"sort"

	"github.com/0xPolygon/polygon-devpool/types"
)

// record is a transaction held by the pool, stamped with the
// sequence number it was admitted under
type record struct {
	tx      *types.Transaction
	arrival uint64
}

// account is the bucket of a single sender.
// It is never mutated once published to a pool state;
// every change produces a new account sharing the untouched records.
type account struct {
	// records held for the sender, sorted by nonce
	records []*record

	// length of the pending prefix of records,
	// computed by the last resync
	promoted int

	// ledger nonce observed by the last resync
	nextNonce uint64
}

func (a *account) length() int {
	if a == nil {
		return 0
	}

	return len(a.records)
}

// find returns the position of the given nonce, or the position
// where it would be inserted
func (a *account) find(nonce uint64) (int, bool) {
	i := sort.Search(len(a.records), func(i int) bool {
		return a.records[i].tx.Nonce >= nonce
	})

	return i, i < len(a.records) && a.records[i].tx.Nonce == nonce
}

// insert returns a new account holding r, and the record
// previously held at the same nonce (if any)
func (a *account) insert(r *record) (*account, *record) {
	if a == nil {
		return &account{records: []*record{r}}, nil
	}

	i, exists := a.find(r.tx.Nonce)

	records := make([]*record, 0, len(a.records)+1)
	records = append(records, a.records[:i]...)
	records = append(records, r)

	var replaced *record

	if exists {
		replaced = a.records[i]
		records = append(records, a.records[i+1:]...)
	} else {
		records = append(records, a.records[i:]...)
	}

	return &account{
		records:   records,
		promoted:  a.promoted,
		nextNonce: a.nextNonce,
	}, replaced
}

// filter visits the records in nonce order and splits them
// into the ones kept and the ones matching remove.
// The receiver is returned as is when nothing matches.
func (a *account) filter(remove func(*record) bool) (*account, []*record) {
	var (
		kept    []*record
		removed []*record
	)

	for _, r := range a.records {
		if remove(r) {
			removed = append(removed, r)

			continue
		}

		kept = append(kept, r)
	}

	if len(removed) == 0 {
		return a, nil
	}

	return &account{
		records:   kept,
		promoted:  min(a.promoted, len(kept)),
		nextNonce: a.nextNonce,
	}, removed
}

// classify returns a new account whose pending prefix is the
// contiguous run of nonces starting at nonce
func (a *account) classify(nonce uint64) *account {
	promoted := 0

	for _, r := range a.records {
		if r.tx.Nonce != nonce+uint64(promoted) {
			break
		}

		promoted++
	}

	if promoted == a.promoted && nonce == a.nextNonce {
		return a
	}

	return &account{
		records:   a.records,
		promoted:  promoted,
		nextNonce: nonce,
	}
}

// pending returns the records classified as pending
func (a *account) pending() []*record {
	return a.records[:a.promoted]
}

// queued returns the records classified as queued
func (a *account) queued() []*record {
	return a.records[a.promoted:]
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}
