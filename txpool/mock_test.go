package txpool

import (
	"errors"
	"math/big"
	"sync"

	"github.com/0xPolygon/polygon-devpool/types"
)

/* MOCK */

var errLedgerUnavailable = errors.New("unable to fetch account state")

type mockAccount struct {
	nonce   uint64
	balance *big.Int
}

// mockStore is a ledger where unknown accounts hold defaultBalance
type mockStore struct {
	lock           sync.Mutex
	accounts       map[types.Address]mockAccount
	defaultBalance *big.Int
	err            error

	// number of lookups served or failed
	reads int
}

func newMockStore() *mockStore {
	return &mockStore{
		accounts:       make(map[types.Address]mockAccount),
		defaultBalance: new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil),
	}
}

func (m *mockStore) set(addr types.Address, nonce uint64, balance *big.Int) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.accounts[addr] = mockAccount{nonce: nonce, balance: balance}
}

func (m *mockStore) setNonce(addr types.Address, nonce uint64) {
	m.lock.Lock()
	defer m.lock.Unlock()

	a, ok := m.accounts[addr]
	if !ok {
		a.balance = m.defaultBalance
	}

	a.nonce = nonce
	m.accounts[addr] = a
}

func (m *mockStore) setBalance(addr types.Address, balance *big.Int) {
	m.lock.Lock()
	defer m.lock.Unlock()

	a := m.accounts[addr]
	a.balance = balance
	m.accounts[addr] = a
}

func (m *mockStore) fail(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.err = err
}

func (m *mockStore) readCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.reads
}

func (m *mockStore) GetNonce(addr types.Address) (uint64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.reads++

	if m.err != nil {
		return 0, m.err
	}

	return m.accounts[addr].nonce, nil
}

func (m *mockStore) GetBalance(addr types.Address) (*big.Int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.reads++

	if m.err != nil {
		return nil, m.err
	}

	a, ok := m.accounts[addr]
	if !ok {
		return new(big.Int).Set(m.defaultBalance), nil
	}

	return new(big.Int).Set(a.balance), nil
}
