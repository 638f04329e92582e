package state

import (
	"errors"
	"math/big"
	"sync"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/0xPolygon/polygon-devpool/types"
)

var ErrSnapshotNotFound = errors.New("state snapshot not found")

// Account is the ledger view of a single address
type Account struct {
	Nonce   uint64
	Balance *big.Int
}

func (a *Account) copy() *Account {
	aa := &Account{
		Nonce:   a.Nonce,
		Balance: new(big.Int),
	}

	if a.Balance != nil {
		aa.Balance.Set(a.Balance)
	}

	return aa
}

// MemoryState is an in-memory account ledger. Every write produces a new
// immutable radix tree, so snapshots are just retained roots.
// Unknown accounts read as nonce 0 with an empty balance.
type MemoryState struct {
	lock      sync.RWMutex
	root      *iradix.Tree
	snapshots []*iradix.Tree
}

// NewMemoryState creates an empty ledger
func NewMemoryState() *MemoryState {
	return &MemoryState{
		root: iradix.New(),
	}
}

func (s *MemoryState) get(addr types.Address) *Account {
	v, ok := s.root.Get(addr.Bytes())
	if !ok {
		return &Account{Balance: new(big.Int)}
	}

	account, _ := v.(*Account)

	return account
}

func (s *MemoryState) update(addr types.Address, fn func(*Account)) {
	s.lock.Lock()
	defer s.lock.Unlock()

	account := s.get(addr).copy()
	fn(account)

	txn := s.root.Txn()
	txn.Insert(addr.Bytes(), account)
	s.root = txn.Commit()
}

// GetNonce returns the next nonce expected from the account
func (s *MemoryState) GetNonce(addr types.Address) (uint64, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.get(addr).Nonce, nil
}

// GetBalance returns a copy of the account balance
func (s *MemoryState) GetBalance(addr types.Address) (*big.Int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return new(big.Int).Set(s.get(addr).Balance), nil
}

// SetNonce sets the next nonce expected from the account
func (s *MemoryState) SetNonce(addr types.Address, nonce uint64) {
	s.update(addr, func(a *Account) {
		a.Nonce = nonce
	})
}

// SetBalance sets the account balance
func (s *MemoryState) SetBalance(addr types.Address, balance *big.Int) {
	s.update(addr, func(a *Account) {
		if balance == nil {
			a.Balance.SetUint64(0)

			return
		}

		a.Balance.Set(balance)
	})
}

// Snapshot retains the current root and returns its id
func (s *MemoryState) Snapshot() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	id := len(s.snapshots)
	s.snapshots = append(s.snapshots, s.root)

	return id
}

// RevertToSnapshot restores the root retained under id and forgets
// every snapshot taken after it
func (s *MemoryState) RevertToSnapshot(id int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if id < 0 || id >= len(s.snapshots) {
		return ErrSnapshotNotFound
	}

	s.root = s.snapshots[id]
	s.snapshots = s.snapshots[:id+1]

	return nil
}
