package types

import (
	"math/big"
	"sync/atomic"

	"github.com/0xPolygon/polygon-devpool/helper/keccak"
)

// Transaction is a signed legacy transaction as held by the pool.
// Signature checks and sender recovery happen before admission,
// so From is expected to be set.
type Transaction struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *Address
	Value    *big.Int
	Input    []byte
	V, R, S  *big.Int
	Hash     Hash
	From     Address

	// Cache
	size atomic.Pointer[uint64]
}

// IsContractCreation checks if tx is contract creation
func (t *Transaction) IsContractCreation() bool {
	return t.To == nil
}

// ComputeHash computes the hash of the transaction
func (t *Transaction) ComputeHash() *Transaction {
	hash := keccak.DefaultKeccakPool.Get()
	hash.WriteFn(t.Hash[:0], t.MarshalRLPTo)
	keccak.DefaultKeccakPool.Put(hash)

	return t
}

// Copy returns a deep copy of the transaction
func (t *Transaction) Copy() *Transaction {
	if t == nil {
		return nil
	}

	tt := &Transaction{
		Nonce: t.Nonce,
		Gas:   t.Gas,
		Hash:  t.Hash,
		From:  t.From,
	}

	tt.GasPrice = copyBig(t.GasPrice)
	tt.Value = copyBig(t.Value)
	tt.V = copyBig(t.V)
	tt.R = copyBig(t.R)
	tt.S = copyBig(t.S)

	if t.To != nil {
		to := *t.To
		tt.To = &to
	}

	if t.Input != nil {
		tt.Input = make([]byte, len(t.Input))
		copy(tt.Input, t.Input)
	}

	return tt
}

// GetGasPrice returns the gas price, zero when unset
func (t *Transaction) GetGasPrice() *big.Int {
	if t.GasPrice == nil {
		return new(big.Int)
	}

	return new(big.Int).Set(t.GasPrice)
}

// GasCost returns gas * gasPrice
func (t *Transaction) GasCost() *big.Int {
	return new(big.Int).Mul(t.GetGasPrice(), new(big.Int).SetUint64(t.Gas))
}

// Cost returns gas * gasPrice + value
func (t *Transaction) Cost() *big.Int {
	total := t.GasCost()
	if t.Value != nil {
		total.Add(total, t.Value)
	}

	return total
}

// Size returns the length of the RLP encoding, cached after the first call
func (t *Transaction) Size() uint64 {
	if size := t.size.Load(); size != nil {
		return *size
	}

	size := uint64(len(t.MarshalRLP()))
	t.size.Store(&size)

	return size
}

func copyBig(b *big.Int) *big.Int {
	if b == nil {
		return nil
	}

	return new(big.Int).Set(b)
}
