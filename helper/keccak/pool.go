package keccak

import (
	"sync"

	"github.com/umbracle/fastrlp"
)

// DefaultKeccakPool is the pool shared by the package level helpers
var DefaultKeccakPool Pool

// Pool recycles keccak hashers between transaction hash computations
type Pool struct {
	pool sync.Pool
}

// Get returns a reset hasher, allocating one when the pool is empty
func (p *Pool) Get() *Keccak {
	if k, ok := p.pool.Get().(*Keccak); ok {
		return k
	}

	return NewKeccak256()
}

// Put resets the hasher and hands it back to the pool
func (p *Pool) Put(k *Keccak) {
	k.Reset()
	p.pool.Put(k)
}

// Keccak256 appends the keccak-256 digest of src to dst
func Keccak256(dst, src []byte) []byte {
	h := DefaultKeccakPool.Get()
	defer DefaultKeccakPool.Put(h)

	h.Write(src)

	return h.Sum(dst)
}

// Keccak256Rlp appends the keccak-256 digest of the encoded value to dst
func Keccak256Rlp(dst []byte, src *fastrlp.Value) []byte {
	h := DefaultKeccakPool.Get()
	defer DefaultKeccakPool.Put(h)

	return h.WriteRlp(dst, src)
}
