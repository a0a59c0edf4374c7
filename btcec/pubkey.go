// Package btcec wraps the secp256k1 compressed-public-key boundary the
// miniscript core treats as external (spec §1): curve validation is
// delegated to decred's secp256k1 implementation, and the core only ever
// sees the 33-byte compressed serialization, which is what it hashes,
// compares, and pushes onto the witness stack. Named after pktd's btcec,
// which plays the same narrow role for txscript.
package btcec

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/pkt-cash/miniscript/er"
)

// PubKeyBytes is the length of a compressed secp256k1 public key.
const PubKeyBytes = 33

// PublicKey is an immutable, comparable 33-byte compressed public key.
// Comparability lets it serve directly as a map key in the satisfier's
// key/pubkey-hash maps.
type PublicKey struct {
	compressed [PubKeyBytes]byte
}

// ParsePubKey validates data as a compressed secp256k1 public key. It
// rejects anything the curve itself rejects (point not on curve, bad
// prefix byte, wrong length); the caller (the lexer) is responsible for
// having already sliced out exactly 33 bytes.
func ParsePubKey(data []byte) (PublicKey, er.R) {
	if len(data) != PubKeyBytes {
		return PublicKey{}, er.Errorf("public key must be %d bytes, got %d", PubKeyBytes, len(data))
	}
	pk, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return PublicKey{}, er.Errorf("bad public key: %w", err)
	}
	var out PublicKey
	copy(out.compressed[:], pk.SerializeCompressed())
	return out, nil
}

// Serialize returns the 33-byte compressed form.
func (p PublicKey) Serialize() []byte {
	out := make([]byte, PubKeyBytes)
	copy(out, p.compressed[:])
	return out
}

func (p PublicKey) String() string {
	return hex.EncodeToString(p.compressed[:])
}
