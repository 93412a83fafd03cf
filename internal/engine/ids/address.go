// Package ids defines the address and hash value types shared across the
// matching engine. Both are fixed-width arrays so they can be embedded
// directly into the zero-copy records the engine persists, the way the
// teacher codebase keeps its Address as a plain fixed-size array rather than
// a slice.
package ids

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// Address is a 32-byte chain address (a Solana-style public key, a CCTP
// domain recipient, or a router endpoint's peer address — the engine treats
// all three uniformly).
type Address [32]byte

// ZeroAddress is the zero-value address, used to detect "account does not
// exist" sentinels in stored records.
var ZeroAddress Address

// String renders the address in base58, the conventional text form for the
// chain addresses this engine manipulates.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// ParseAddress decodes a base58-encoded address.
func ParseAddress(s string) (Address, error) {
	var a Address
	b, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("parse address %q: %w", s, err)
	}
	if len(b) != len(a) {
		return a, fmt.Errorf("parse address %q: expected %d bytes, got %d", s, len(a), len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Hash is a 32-byte keccak digest, used both as the fast-market-order
// content address and as the VAA/finalized-message digest.
type Hash [32]byte

// ZeroHash is the zero-value digest.
var ZeroHash Hash

// String renders the hash as lowercase hex, the conventional form for
// digests (as opposed to addresses, which render in base58).
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether the hash is the zero value.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) Bytes() []byte {
	return h[:]
}
