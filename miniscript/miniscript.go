// Package miniscript is the public facade over the parser, AST,
// satisfier and policy compiler: Parse/Serialize round-trip a raw
// Script, Compile turns a spending policy into the cheapest Miniscript
// realizing it, and Satisfy produces a witness stack from whatever
// signatures, preimages and pubkeys the caller has on hand.
package miniscript

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/ast"
	"github.com/pkt-cash/miniscript/miniscript/parse"
	"github.com/pkt-cash/miniscript/miniscript/policy"
)

// ParseTree is the typed representation of a parsed or compiled script.
type ParseTree = ast.ParseTree

// Descriptor is a spending-policy tree, the input to Compile.
type Descriptor = policy.Descriptor

// SatCtx bundles the witness ingredients available at spend time.
type SatCtx = ast.SatCtx

// Parse lexes and parses script into a ParseTree. An error is returned
// if script is not valid Miniscript: an unsupported opcode, a
// non-minimal push, or a token sequence that does not reduce to a
// single top-level T fragment.
func Parse(script []byte) (*ParseTree, er.R) {
	return parse.Parse(script)
}

// Serialize renders tree back to raw Script bytes.
func Serialize(tree *ParseTree) []byte {
	return tree.Serialize()
}

// Compile turns desc into the cheapest Miniscript ParseTree realizing
// its spending conditions. It panics only when desc contains an empty
// Threshold, the one descriptor shape that has no script encoding.
func Compile(desc Descriptor) (*ParseTree, er.R) {
	return policy.Compile(desc)
}

// Satisfy produces a witness stack (bottom to top) that makes tree
// evaluate successfully under ctx, or an error naming the first missing
// ingredient (signature, preimage, or pubkey-hash preimage) encountered.
func Satisfy(tree *ParseTree, ctx *SatCtx) ([][]byte, er.R) {
	return tree.Satisfy(ctx)
}

// RequiredKeys lists every public key that could take part in
// satisfying tree, across every branch, not just the cheapest one.
// Keys that the script names only by hash160 (CheckSigHash fragments)
// are not listed.
func RequiredKeys(tree *ParseTree) []btcec.PublicKey {
	return tree.RequiredKeys()
}

// NewSatCtx builds a SatCtx from the witness material a caller has on
// hand: sigs, keyed by the signing public key; pkHashes, keyed by the
// hash160 of a public key (for CheckSigHash-style fragments);
// preimages, keyed by the sha256 image they open; and age, the
// sequence/height value used to judge CHECKSEQUENCEVERIFY fragments.
func NewSatCtx(
	sigs map[btcec.PublicKey][]byte,
	pkHashes map[chainhash.Hash160]btcec.PublicKey,
	preimages map[chainhash.Hash256][]byte,
	age uint32,
) *SatCtx {
	return &ast.SatCtx{Sigs: sigs, PKHashes: pkHashes, Preimage: preimages, Age: age}
}
