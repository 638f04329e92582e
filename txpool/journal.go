package txpool

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/0xPolygon/polygon-devpool/types"
)

// TxStatus indicates why a transaction left the pool
type TxStatus int8

const (
	TxReplaced                 TxStatus = iota // Tx was replaced by another one with the same nonce
	TxEvictedGasLimit                          // Tx gas exceeded the block gas limit
	TxEvictedInsufficientFunds                 // Sender could not pay for the tx
	TxEvictedStaleNonce                        // Nonce is below the ledger nonce of the sender
)

var (
	// txStatusToString is a mapping from TxStatus to text status
	txStatusToString = map[TxStatus]string{
		TxReplaced:                 "replaced",
		TxEvictedGasLimit:          "gas_limit",
		TxEvictedInsufficientFunds: "insufficient_funds",
		TxEvictedStaleNonce:        "stale_nonce",
	}
)

// String returns text status from status code
func (s TxStatus) String() string {
	return txStatusToString[s]
}

// journal records the statuses of transactions that left the pool
type journal interface {
	// logTxStatus records the status of the tx
	logTxStatus(txHash types.Hash, status TxStatus)
	// resetTxStatus removes the status of the tx from journal
	resetTxStatus(txHash types.Hash)
	// txStatus returns the Tx status recorded in journal
	txStatus(txHash types.Hash) (TxStatus, bool)
}

// memoryJournal is an implementation of journal holding
// the most recent statuses in memory
type memoryJournal struct {
	statuses *lru.Cache
}

// newMemoryJournal initializes memoryJournal with room for size statuses
func newMemoryJournal(size int) (*memoryJournal, error) {
	statuses, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &memoryJournal{
		statuses: statuses,
	}, nil
}

func (j *memoryJournal) logTxStatus(txHash types.Hash, status TxStatus) {
	j.statuses.Add(txHash, status)
}

func (j *memoryJournal) resetTxStatus(txHash types.Hash) {
	j.statuses.Remove(txHash)
}

func (j *memoryJournal) txStatus(txHash types.Hash) (TxStatus, bool) {
	rawValue, ok := j.statuses.Get(txHash)
	if !ok {
		return 0, false
	}

	status, ok := rawValue.(TxStatus)

	return status, ok
}
