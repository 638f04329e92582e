package txpool

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/0xPolygon/polygon-devpool/types"
)

// ValidateInvariants verifies the consistency of the current pool state
// and returns every broken sender or index invariant it finds.
//
// This method is intended for diagnostics and tests.
func (p *TxPool) ValidateInvariants() error {
	s := p.current()

	var (
		result         *multierror.Error
		held           int
		pending, queue int
	)

	s.walk(func(addr types.Address, a *account) {
		if a.length() == 0 {
			result = multierror.Append(result, fmt.Errorf("sender %s has an empty bucket", addr))

			return
		}

		held += a.length()
		pending += a.promoted
		queue += a.length() - a.promoted

		if a.promoted > a.length() {
			result = multierror.Append(result,
				fmt.Errorf("sender %s has %d pending of %d held", addr, a.promoted, a.length()))

			return
		}

		for i, r := range a.records {
			if r.tx.From != addr {
				result = multierror.Append(result,
					fmt.Errorf("sender %s holds tx %s from %s", addr, r.tx.Hash, r.tx.From))
			}

			if i > 0 && a.records[i-1].tx.Nonce >= r.tx.Nonce {
				result = multierror.Append(result,
					fmt.Errorf("sender %s nonce order broken at %d", addr, r.tx.Nonce))
			}

			if r.tx.Nonce < a.nextNonce {
				result = multierror.Append(result,
					fmt.Errorf("sender %s holds nonce %d below ledger nonce %d", addr, r.tx.Nonce, a.nextNonce))
			}

			if r.tx.Gas > s.blockGasLimit {
				result = multierror.Append(result,
					fmt.Errorf("sender %s nonce %d gas %d exceeds block gas limit %d",
						addr, r.tx.Nonce, r.tx.Gas, s.blockGasLimit))
			}

			if i < a.promoted && r.tx.Nonce != a.nextNonce+uint64(i) {
				result = multierror.Append(result,
					fmt.Errorf("sender %s pending run broken at nonce %d", addr, r.tx.Nonce))
			}

			if indexed, ok := s.index.tree.Get(lookupKey(r.tx.Hash, r.tx.From)); !ok || indexed != r {
				result = multierror.Append(result,
					fmt.Errorf("sender %s nonce %d missing from index", addr, r.tx.Nonce))
			}
		}

		if a.promoted < a.length() && a.records[a.promoted].tx.Nonce == a.nextNonce+uint64(a.promoted) {
			result = multierror.Append(result,
				fmt.Errorf("sender %s queued nonce %d extends the pending run", addr, a.records[a.promoted].tx.Nonce))
		}
	})

	if n := s.index.len(); n != held {
		result = multierror.Append(result, fmt.Errorf("index holds %d records, buckets hold %d", n, held))
	}

	if pending != s.pending || queue != s.queued {
		result = multierror.Append(result,
			fmt.Errorf("counters %d/%d, buckets %d/%d", s.pending, s.queued, pending, queue))
	}

	return result.ErrorOrNil()
}
