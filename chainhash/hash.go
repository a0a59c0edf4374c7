// Package chainhash provides the two hash primitives the miniscript core
// treats as an opaque external boundary (spec §1): Hash160 (RIPEMD160 over
// SHA256, used by pay-to-pubkey-hash style fragments) and a bare 32-byte
// SHA256 image (used by hash-preimage fragments). Named and shaped after
// pktd's chaincfg/chainhash, which txscript/opcode.go imports but which
// was not itself part of the retrieved example slice.
package chainhash

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/ripemd160"
)

// Hash160Size is the size, in bytes, of a Hash160.
const Hash160Size = 20

// HashSize is the size, in bytes, of a Sha256 hash.
const HashSize = 32

// Hash160 is the RIPEMD160(SHA256(x)) digest used by pubkey-hash fragments.
type Hash160 [Hash160Size]byte

// Hash256 is a bare 32-byte SHA256 digest, used by hash-preimage fragments.
// The caller decides the hashing discipline (spec §9's open question);
// this type only carries the 32 bytes.
type Hash256 [HashSize]byte

// CalcHash160 computes RIPEMD160(SHA256(data)).
func CalcHash160(data []byte) Hash160 {
	sh := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(sh[:])
	var out Hash160
	copy(out[:], r.Sum(nil))
	return out
}

// CalcSha256 computes SHA256(data).
func CalcSha256(data []byte) Hash256 {
	return sha256.Sum256(data)
}

// NewHash160FromBytes builds a Hash160 from a 20-byte slice.
func NewHash160FromBytes(b []byte) Hash160 {
	var h Hash160
	copy(h[:], b)
	return h
}

// NewHash256FromBytes builds a Hash256 from a 32-byte slice.
func NewHash256FromBytes(b []byte) Hash256 {
	var h Hash256
	copy(h[:], b)
	return h
}

func (h Hash160) String() string { return hex.EncodeToString(h[:]) }
func (h Hash256) String() string { return hex.EncodeToString(h[:]) }
