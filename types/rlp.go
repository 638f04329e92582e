package types

import (
	"fmt"
	"math/big"

	"github.com/umbracle/fastrlp"
)

type marshalRLPFunc func(ar *fastrlp.Arena) *fastrlp.Value

type unmarshalRLPFunc func(p *fastrlp.Parser, v *fastrlp.Value) error

// MarshalRLPTo appends the encoding produced by obj to dst
func MarshalRLPTo(obj marshalRLPFunc, dst []byte) []byte {
	ar := fastrlp.DefaultArenaPool.Get()
	dst = obj(ar).MarshalTo(dst)
	fastrlp.DefaultArenaPool.Put(ar)

	return dst
}

// UnmarshalRlp parses input and hands the root value to obj
func UnmarshalRlp(obj unmarshalRLPFunc, input []byte) error {
	pr := fastrlp.DefaultParserPool.Get()
	defer fastrlp.DefaultParserPool.Put(pr)

	v, err := pr.Parse(input)
	if err != nil {
		return err
	}

	return obj(pr, v)
}

// MarshalRLP returns the signed encoding of the transaction
func (t *Transaction) MarshalRLP() []byte {
	return t.MarshalRLPTo(nil)
}

func (t *Transaction) MarshalRLPTo(dst []byte) []byte {
	return MarshalRLPTo(t.MarshalRLPWith, dst)
}

// MarshalRLPWith marshals the transaction to RLP with a specific fastrlp.Arena
func (t *Transaction) MarshalRLPWith(arena *fastrlp.Arena) *fastrlp.Value {
	vv := arena.NewArray()

	vv.Set(arena.NewUint(t.Nonce))
	vv.Set(arena.NewBigInt(orZero(t.GasPrice)))
	vv.Set(arena.NewUint(t.Gas))

	// Address may be empty
	if t.To != nil {
		vv.Set(arena.NewCopyBytes(t.To.Bytes()))
	} else {
		vv.Set(arena.NewNull())
	}

	vv.Set(arena.NewBigInt(orZero(t.Value)))
	vv.Set(arena.NewCopyBytes(t.Input))

	// signature values
	vv.Set(arena.NewBigInt(orZero(t.V)))
	vv.Set(arena.NewBigInt(orZero(t.R)))
	vv.Set(arena.NewBigInt(orZero(t.S)))

	return vv
}

func (t *Transaction) UnmarshalRLP(input []byte) error {
	return UnmarshalRlp(t.UnmarshalRLPFrom, input)
}

// UnmarshalRLPFrom decodes the transaction fields and recomputes its hash.
// The sender is not part of the encoding and is left untouched.
func (t *Transaction) UnmarshalRLPFrom(_ *fastrlp.Parser, v *fastrlp.Value) error {
	elems, err := v.GetElems()
	if err != nil {
		return err
	}

	if num := len(elems); num != 9 {
		return fmt.Errorf("incorrect number of elements to decode transaction, expected 9 but found %d", num)
	}

	// nonce
	if t.Nonce, err = elems[0].GetUint64(); err != nil {
		return err
	}

	// gasPrice
	t.GasPrice = new(big.Int)
	if err = elems[1].GetBigInt(t.GasPrice); err != nil {
		return err
	}

	// gas
	if t.Gas, err = elems[2].GetUint64(); err != nil {
		return err
	}

	// to
	if vv, _ := elems[3].Bytes(); len(vv) == AddressLength {
		addr := BytesToAddress(vv)
		t.To = &addr
	} else {
		t.To = nil
	}

	// value
	t.Value = new(big.Int)
	if err = elems[4].GetBigInt(t.Value); err != nil {
		return err
	}

	// input
	if t.Input, err = elems[5].GetBytes(t.Input[:0]); err != nil {
		return err
	}

	// signature values
	t.V, t.R, t.S = new(big.Int), new(big.Int), new(big.Int)

	if err = elems[6].GetBigInt(t.V); err != nil {
		return err
	}

	if err = elems[7].GetBigInt(t.R); err != nil {
		return err
	}

	if err = elems[8].GetBigInt(t.S); err != nil {
		return err
	}

	t.ComputeHash()

	return nil
}

func orZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}

	return b
}
