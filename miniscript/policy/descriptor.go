// Package policy implements the high-level spending-policy language
// ("descriptors") and the cost-minimizing compiler from a descriptor tree
// down to a concrete Miniscript AST.
package policy

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
)

// Kind identifies which variant of Descriptor a node holds.
type Kind int

const (
	Key Kind = iota
	KeyHash
	Multi
	Time
	Hash
	Threshold
	And
	Or
	AsymmetricOr
	Wpkh
	Sh
	Wsh
)

// Descriptor is a recursive spending-policy tree. Exactly the fields
// relevant to Kind are populated; the zero value of the others is ignored.
//
// Wpkh, Sh and Wsh are wrapping forms handled above the AST compiler: they
// describe an output script (segwit v0 P2WPKH, P2SH, P2WSH) wrapping an
// inner policy, and Compile peels them off before invoking the per-type
// Miniscript compilation of their child.
type Descriptor struct {
	Kind Kind

	Key  btcec.PublicKey   // Key, KeyHash, Wpkh
	Keys []btcec.PublicKey // Multi
	K    int               // Multi, Threshold
	N    uint32             // Time
	Hash chainhash.Hash256 // Hash

	Subs []Descriptor // Threshold

	Left, Right *Descriptor // And, Or, AsymmetricOr

	Sub *Descriptor // Sh, Wsh
}

// NewKey builds a Key descriptor: spend requires a signature for pk.
func NewKey(pk btcec.PublicKey) Descriptor { return Descriptor{Kind: Key, Key: pk} }

// NewKeyHash builds a KeyHash descriptor: spend requires the pubkey and a
// signature for it, with the pubkey's hash160 fixed in the script.
func NewKeyHash(pk btcec.PublicKey) Descriptor { return Descriptor{Kind: KeyHash, Key: pk} }

// NewMulti builds a k-of-n CHECKMULTISIG descriptor.
func NewMulti(k int, keys []btcec.PublicKey) Descriptor {
	return Descriptor{Kind: Multi, K: k, Keys: keys}
}

// NewTime builds a relative-locktime (CSV) descriptor.
func NewTime(n uint32) Descriptor { return Descriptor{Kind: Time, N: n} }

// NewHash builds a sha256 preimage descriptor.
func NewHash(hash chainhash.Hash256) Descriptor { return Descriptor{Kind: Hash, Hash: hash} }

// NewThreshold builds a k-of-n descriptor over arbitrary sub-policies.
func NewThreshold(k int, subs []Descriptor) Descriptor {
	return Descriptor{Kind: Threshold, K: k, Subs: subs}
}

// NewAnd requires both branches.
func NewAnd(left, right Descriptor) Descriptor {
	return Descriptor{Kind: And, Left: &left, Right: &right}
}

// NewOr requires either branch, with no assumption on which is more likely.
func NewOr(left, right Descriptor) Descriptor {
	return Descriptor{Kind: Or, Left: &left, Right: &right}
}

// NewAsymmetricOr requires either branch but asserts the left is
// overwhelmingly more likely to be the one actually taken.
func NewAsymmetricOr(left, right Descriptor) Descriptor {
	return Descriptor{Kind: AsymmetricOr, Left: &left, Right: &right}
}

// NewWpkh wraps a single key in a segwit v0 P2WPKH output.
func NewWpkh(pk btcec.PublicKey) Descriptor { return Descriptor{Kind: Wpkh, Key: pk} }

// NewSh wraps a sub-policy in a P2SH output.
func NewSh(sub Descriptor) Descriptor { return Descriptor{Kind: Sh, Sub: &sub} }

// NewWsh wraps a sub-policy in a segwit v0 P2WSH output.
func NewWsh(sub Descriptor) Descriptor { return Descriptor{Kind: Wsh, Sub: &sub} }
