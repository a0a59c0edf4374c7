// Package ast is the typed Miniscript abstract syntax tree: five node
// kinds (E, W, F, V, T) distinguished by the stack postcondition they
// leave behind, each modeled as a Go interface with one concrete struct
// per grammar production. This mirrors the E/W/F/V/T enums of the
// original parse.rs, translated from Rust sum types to the idiomatic Go
// shape of an interface plus one struct per variant.
package ast

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

// Elem is the capability set every AST node implements: it can
// serialize itself onto a script and report which public keys might
// take part in satisfying it.
type Elem interface {
	Serialize(b *scriptbuilder.ScriptBuilder)
	RequiredKeys() []btcec.PublicKey
}

// SatCtx bundles the witness ingredients available to the satisfier:
// signatures keyed by the signing public key, public keys keyed by
// their hash160 (for CheckSigHash-style fragments), preimages keyed by
// their sha256 image, and the chain height or sequence value used to
// judge relative-locktime (CSV) fragments.
type SatCtx struct {
	Sigs     map[btcec.PublicKey][]byte
	PKHashes map[chainhash.Hash160]btcec.PublicKey
	Preimage map[chainhash.Hash256][]byte
	Age      uint32
}

// Sat is an AST node that can be satisfied: given a SatCtx, it produces
// the sequence of witness stack pushes (bottom to top) that makes the
// fragment evaluate true, or an error naming the missing ingredient.
type Sat interface {
	Satisfy(ctx *SatCtx) ([][]byte, er.R)
}

// Dissat is an AST node that can also be deliberately failed, producing
// the pushes that make it evaluate false without aborting the script.
// Only E and W fragments are ever dissatisfied (spec: "expression that
// may be satisfied or dissatisfied"); F, V and T must always succeed.
type Dissat interface {
	Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R)
}

// E is satisfiable and dissatisfiable; it leaves a single boolean on
// the stack.
type E interface {
	Elem
	Sat
	Dissat
	isE()
}

// W is an E-like fragment preceded by an implicit top-of-stack item it
// consumes; it exists only as a combinator operand, never at the root.
type W interface {
	Elem
	Sat
	Dissat
	isW()
}

// F must succeed and leaves exactly 1 on the stack.
type F interface {
	Elem
	Sat
	isF()
}

// V must succeed and leaves nothing on the stack.
type V interface {
	Elem
	Sat
	isV()
}

// T is the root type: it may succeed or fail, but a false result aborts
// the whole script (unlike E, whose false is a valid dissatisfaction).
type T interface {
	Elem
	Sat
	isT()
}

// ParseTree is the top-level compiled or parsed script representation.
type ParseTree struct {
	Top T
}

// Serialize renders the tree to script bytes.
func (p *ParseTree) Serialize() []byte {
	b := scriptbuilder.New()
	p.Top.Serialize(b)
	return b.Script()
}

// Satisfy produces a satisfying witness stack for the whole tree.
func (p *ParseTree) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return p.Top.Satisfy(ctx)
}

// RequiredKeys lists every public key that could participate in
// satisfaction, except keys the script names only by hash160
// (CheckSigHash fragments).
func (p *ParseTree) RequiredKeys() []btcec.PublicKey {
	return p.Top.RequiredKeys()
}
