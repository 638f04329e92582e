package txpool

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/0xPolygon/polygon-devpool/types"
)

const (
	defaultBlockGasLimit uint64 = 30_000_000
	defaultJournalSize          = 4096
)

// errors
var (
	ErrBlockLimitExceeded = errors.New("exceeds block gas limit")
	ErrSnapshotNotFound   = errors.New("There's no snapshot with such ID") //nolint:stylecheck
	ErrNilTransaction     = errors.New("nil transaction")
	ErrNilStore           = errors.New("nil store")
)

// GasLimitExceededError is returned when a transaction asks
// for more gas than the block gas limit allows
type GasLimitExceededError struct {
	GasLimit      uint64
	BlockGasLimit uint64
}

func (e *GasLimitExceededError) Error() string {
	return fmt.Sprintf(
		"Transaction gas limit is %d and exceeds block gas limit of %d",
		e.GasLimit,
		e.BlockGasLimit,
	)
}

func (e *GasLimitExceededError) Unwrap() error {
	return ErrBlockLimitExceeded
}

// store interface defines the ledger methods the TxPool should have access to
type store interface {
	GetNonce(addr types.Address) (uint64, error)
	GetBalance(addr types.Address) (*big.Int, error)
}

type Config struct {
	// initial ceiling on the gas of a single transaction
	BlockGasLimit uint64

	// SkipValueCheck leaves the value out of the balance walk,
	// senders only have to cover gas * price
	SkipValueCheck bool

	// number of eviction statuses remembered
	JournalSize int
}

// DefaultConfig returns the default pool configuration
func DefaultConfig() *Config {
	return &Config{
		BlockGasLimit: defaultBlockGasLimit,
		JournalSize:   defaultJournalSize,
	}
}

// TxPool holds the transactions submitted for the next blocks.
// Every sender has one bucket of nonce sorted transactions: the run of
// nonces starting at the ledger nonce is pending, the rest is queued.
//
// The contents live in an immutable poolState. Mutations stage their
// changes in a transaction, restore the invariants against the ledger
// and publish the result, so snapshots are plain state pointers.
type TxPool struct {
	logger hclog.Logger
	store  store

	skipValueCheck bool

	// lock serializes mutations, readers only use it
	// to load the current state
	lock  sync.RWMutex
	state *poolState

	// sequence number of the next admitted transaction
	arrival uint64

	snapshots snapshotManager

	journal journal
}

// NewTxPool returns a new pool reading the ledger from store
func NewTxPool(
	logger hclog.Logger,
	store store,
	config *Config,
) (*TxPool, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if config == nil {
		config = DefaultConfig()
	}

	journalSize := config.JournalSize
	if journalSize <= 0 {
		journalSize = defaultJournalSize
	}

	journal, err := newMemoryJournal(journalSize)
	if err != nil {
		return nil, fmt.Errorf("unable to create journal: %w", err)
	}

	pool := &TxPool{
		logger:         logger.Named("txpool"),
		store:          store,
		skipValueCheck: config.SkipValueCheck,
		state:          newPoolState(config.BlockGasLimit),
		journal:        journal,
	}

	updateGauges(pool.state)

	return pool, nil
}

// current returns the latest committed state
func (p *TxPool) current() *poolState {
	p.lock.RLock()
	defer p.lock.RUnlock()

	return p.state
}

// AddTx admits the transaction, replacing the one the sender
// holds at the same nonce, and resyncs the pool.
// The pool keeps its own copy of tx.
func (p *TxPool) AddTx(tx *types.Transaction) error {
	if tx == nil {
		return ErrNilTransaction
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	if limit := p.state.blockGasLimit; tx.Gas > limit {
		incrCounter("block_gas_limit_exceeded_tx", 1)

		return &GasLimitExceededError{
			GasLimit:      tx.Gas,
			BlockGasLimit: limit,
		}
	}

	r := &record{
		tx:      tx.Copy(),
		arrival: p.arrival,
	}

	// the index is keyed by hash, never trust a preset one
	r.tx.ComputeHash()

	p.arrival++

	txn := p.state.txn()
	replaced := txn.admit(r)

	evicted, err := p.resync(txn)
	if err != nil {
		return err
	}

	// a re-admitted hash starts over, unless this resync evicted it again
	p.journal.resetTxStatus(r.tx.Hash)
	p.commit(txn, evicted)

	incrCounter("added_tx", 1)

	if replaced != nil && replaced.tx.Hash != r.tx.Hash {
		p.journal.logTxStatus(replaced.tx.Hash, TxReplaced)
		incrCounter("replaced_tx", 1)
	}

	if p.logger.IsDebug() {
		p.logger.Debug("transaction added",
			"hash", r.tx.Hash,
			"addr", r.tx.From,
			"nonce", r.tx.Nonce,
			"replaced", replaced != nil,
		)
	}

	return nil
}

// RemoveTx drops every record held under hash (e.g. once it
// was included by the caller) and resyncs the pool.
// Returns whether anything was held.
func (p *TxPool) RemoveTx(hash types.Hash) (bool, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	txn := p.state.txn()

	found := txn.index.find(hash)
	for _, r := range found {
		target := r
		txn.removeFrom(target.tx.From, func(r *record) bool {
			return r == target
		})
	}

	evicted, err := p.resync(txn)
	if err != nil {
		return false, err
	}

	p.commit(txn, evicted)

	return len(found) > 0, nil
}

// GetBlockGasLimit returns the configured block gas limit
func (p *TxPool) GetBlockGasLimit() uint64 {
	return p.current().blockGasLimit
}

// SetBlockGasLimit replaces the block gas limit and resyncs the pool
func (p *TxPool) SetBlockGasLimit(limit uint64) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	txn := p.state.txn()
	txn.blockGasLimit = limit

	evicted, err := p.resync(txn)
	if err != nil {
		return err
	}

	p.commit(txn, evicted)

	p.logger.Info("block gas limit updated", "limit", limit, "evicted", len(evicted))

	return nil
}

// Resync revalidates every held transaction against the ledger
func (p *TxPool) Resync() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	txn := p.state.txn()

	evicted, err := p.resync(txn)
	if err != nil {
		return err
	}

	p.commit(txn, evicted)

	return nil
}

// commit publishes txn and accounts for the evicted records.
// Must be called with the lock held.
func (p *TxPool) commit(txn *stateTxn, evicted []eviction) {
	p.state = txn.commit()

	counts := make(map[TxStatus]int)

	for _, e := range evicted {
		p.journal.logTxStatus(e.record.tx.Hash, e.reason)
		counts[e.reason]++

		if p.logger.IsDebug() {
			p.logger.Debug("transaction evicted",
				"hash", e.record.tx.Hash,
				"addr", e.record.tx.From,
				"nonce", e.record.tx.Nonce,
				"reason", e.reason,
			)
		}
	}

	for reason, count := range counts {
		incrCounter(evictionCounters[reason], count)
	}

	updateGauges(p.state)
}

// HasPendingTransactions reports whether the last resync
// classified anything as pending
func (p *TxPool) HasPendingTransactions() bool {
	return p.current().pending > 0
}

// Length returns the number of pending transactions
func (p *TxPool) Length() uint64 {
	return uint64(p.current().pending)
}

// GetOrderedPendingTransactions returns the pending transactions of
// every sender, merged by gas price then arrival. Each sender's
// transactions keep their nonce order.
func (p *TxPool) GetOrderedPendingTransactions() []*types.Transaction {
	return p.ordered((*account).pending)
}

// GetOrderedQueuedTransactions is GetOrderedPendingTransactions for
// the queued transactions
func (p *TxPool) GetOrderedQueuedTransactions() []*types.Transaction {
	return p.ordered((*account).queued)
}

func (p *TxPool) ordered(lane func(*account) []*record) []*types.Transaction {
	var lanes [][]*record

	p.current().walk(func(_ types.Address, a *account) {
		lanes = append(lanes, lane(a))
	})

	return newPricedQueue(lanes).drain()
}

// GetTx returns the transaction held under hash
func (p *TxPool) GetTx(hash types.Hash) (*types.Transaction, bool) {
	r, ok := p.current().index.get(hash)
	if !ok {
		return nil, false
	}

	return r.tx.Copy(), true
}

// GetPendingTx returns the transaction held under hash
// if it is classified as pending
func (p *TxPool) GetPendingTx(hash types.Hash) (*types.Transaction, bool) {
	s := p.current()

	r, ok := s.index.get(hash)
	if !ok {
		return nil, false
	}

	a := s.get(r.tx.From)
	if a == nil {
		return nil, false
	}

	if i, exists := a.find(r.tx.Nonce); !exists || i >= a.promoted {
		return nil, false
	}

	return r.tx.Copy(), true
}

// GetNonce returns the next nonce the sender can use to extend its
// pending run. Unknown senders are looked up in the ledger.
func (p *TxPool) GetNonce(addr types.Address) (uint64, error) {
	if a := p.current().get(addr); a != nil {
		return a.nextNonce + uint64(a.promoted), nil
	}

	return p.store.GetNonce(addr)
}

// GetTxs returns the pending and, if requested, the queued
// transactions of every sender
func (p *TxPool) GetTxs(inclQueued bool) (
	allPromoted, allEnqueued map[types.Address][]*types.Transaction,
) {
	allPromoted = make(map[types.Address][]*types.Transaction)
	allEnqueued = make(map[types.Address][]*types.Transaction)

	copyTxs := func(records []*record) []*types.Transaction {
		txs := make([]*types.Transaction, len(records))
		for i, r := range records {
			txs[i] = r.tx.Copy()
		}

		return txs
	}

	p.current().walk(func(addr types.Address, a *account) {
		if pending := a.pending(); len(pending) != 0 {
			allPromoted[addr] = copyTxs(pending)
		}

		if queued := a.queued(); inclQueued && len(queued) != 0 {
			allEnqueued[addr] = copyTxs(queued)
		}
	})

	return
}

// EvictionReason returns why the transaction left the pool, if recorded
func (p *TxPool) EvictionReason(hash types.Hash) (TxStatus, bool) {
	return p.journal.txStatus(hash)
}

// MakeSnapshot retains the current pool state and returns its id
func (p *TxPool) MakeSnapshot() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	id := p.snapshots.take(p.state)

	incrCounter("snapshots_taken", 1)

	return id
}

// RevertToSnapshot restores the pool state retained under id, exactly as
// it was classified then, and discards every later snapshot
func (p *TxPool) RevertToSnapshot(id int) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	s, err := p.snapshots.revert(id)
	if err != nil {
		return err
	}

	p.state = s

	incrCounter("snapshots_reverted", 1)
	updateGauges(p.state)

	p.logger.Debug("reverted to snapshot", "id", id)

	return nil
}
