package txpool

import (
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/0xPolygon/polygon-devpool/types"
)

// maximum number of ledger lookups in flight during a resync
const ledgerReadLimit = 16

// eviction is a record removed by a resync, and the reason
type eviction struct {
	record *record
	reason TxStatus
}

// ledgerView is the ledger state of a sender at the time of a resync
type ledgerView struct {
	nonce   uint64
	balance *big.Int
}

// readLedger fetches nonce and balance of every sender.
// The first lookup failure is returned as is.
func (p *TxPool) readLedger(senders []types.Address) ([]ledgerView, error) {
	views := make([]ledgerView, len(senders))

	g := new(errgroup.Group)
	g.SetLimit(ledgerReadLimit)

	for i, addr := range senders {
		i, addr := i, addr

		g.Go(func() error {
			nonce, err := p.store.GetNonce(addr)
			if err != nil {
				return err
			}

			balance, err := p.store.GetBalance(addr)
			if err != nil {
				return err
			}

			if balance == nil {
				balance = new(big.Int)
			}

			views[i] = ledgerView{
				nonce:   nonce,
				balance: balance,
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return views, nil
}

// resync restores the pool invariants on txn. Per sender, in this order:
// records above the block gas limit are evicted, then records below the
// ledger nonce, then the first record the balance cannot cover along with
// every higher nonce. The contiguous run starting at the ledger nonce is
// classified pending and the rest queued.
// Records below the ledger nonce are evicted as stale before the balance
// walk, so their cost never counts against the balance.
func (p *TxPool) resync(txn *stateTxn) ([]eviction, error) {
	var evicted []eviction

	collect := func(removed []*record, reason TxStatus) {
		for _, r := range removed {
			evicted = append(evicted, eviction{record: r, reason: reason})
		}
	}

	limit := txn.blockGasLimit
	collect(txn.removeWhere(func(r *record) bool {
		return r.tx.Gas > limit
	}), TxEvictedGasLimit)

	senders := txn.senders()

	views, err := p.readLedger(senders)
	if err != nil {
		return nil, err
	}

	for i, addr := range senders {
		view := views[i]

		collect(txn.removeFrom(addr, func(r *record) bool {
			return r.tx.Nonce < view.nonce
		}), TxEvictedStaleNonce)

		var (
			remaining = new(big.Int).Set(view.balance)
			shortfall = false
		)

		collect(txn.removeFrom(addr, func(r *record) bool {
			if !shortfall {
				remaining.Sub(remaining, p.cost(r.tx))
				shortfall = remaining.Sign() < 0
			}

			return shortfall
		}), TxEvictedInsufficientFunds)

		txn.classify(addr, view.nonce)
	}

	return evicted, nil
}

// cost returns what the sender has to cover for tx
func (p *TxPool) cost(tx *types.Transaction) *big.Int {
	if p.skipValueCheck {
		return tx.GasCost()
	}

	return tx.Cost()
}
