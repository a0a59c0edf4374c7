package parse

import (
	"bytes"
	"testing"

	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/miniscript/ast"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

func testPubKey(t *testing.T, i int) btcec.PublicKey {
	t.Helper()
	pk, err := btcec.ParsePubKey(knownPubkeys[i%len(knownPubkeys)])
	if err != nil {
		t.Fatalf("test fixture pubkey invalid: %s", err.Message())
	}
	return pk
}

var knownPubkeys = [][]byte{
	mustHex("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
	mustHex("02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"),
	mustHex("02f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"),
}

func mustHex(s string) []byte {
	b := make([]byte, len(s)/2)
	for i := range b {
		b[i] = hexNibble(s[i*2])<<4 | hexNibble(s[i*2+1])
	}
	return b
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func roundTrip(t *testing.T, tree *ast.ParseTree) {
	t.Helper()
	script := tree.Serialize()
	got, err := Parse(script)
	if err != nil {
		t.Fatalf("parse failed: %s (script %x)", err.Message(), script)
	}
	if !bytes.Equal(got.Serialize(), script) {
		t.Fatalf("round trip mismatch: got %x, want %x", got.Serialize(), script)
	}
}

func TestParseCheckSig(t *testing.T) {
	pk := testPubKey(t, 0)
	roundTrip(t, &ast.ParseTree{Top: ast.TCastE{E: ast.ECheckSig{PK: pk}}})
}

func TestParseCheckMultiSig(t *testing.T) {
	pks := []btcec.PublicKey{testPubKey(t, 0), testPubKey(t, 1), testPubKey(t, 2)}
	roundTrip(t, &ast.ParseTree{Top: ast.TCastE{E: ast.ECheckMultiSig{K: 2, Keys: pks}}})
}

func TestParseCsv(t *testing.T) {
	roundTrip(t, &ast.ParseTree{Top: ast.TCastF{F: ast.FCsv{N: 921}}})
}

func TestParseSwitchOr(t *testing.T) {
	roundTrip(t, &ast.ParseTree{Top: ast.TCastF{F: ast.FSwitchOr{
		Left:  ast.FCsv{N: 9},
		Right: ast.FCsv{N: 7},
	}}})
}

func TestParseSwitchOrV(t *testing.T) {
	pks := []btcec.PublicKey{testPubKey(t, 0), testPubKey(t, 1), testPubKey(t, 2)}
	roundTrip(t, &ast.ParseTree{Top: ast.TCastF{F: ast.FSwitchOrV{
		Left: ast.VCheckSig{PK: pks[0]},
		Right: ast.VAnd{
			Left:  ast.VCheckSig{PK: pks[1]},
			Right: ast.VCheckSig{PK: pks[2]},
		},
	}}})
}

func TestParseCascadeOrLiquidPolicy(t *testing.T) {
	pks := []btcec.PublicKey{testPubKey(t, 0), testPubKey(t, 1), testPubKey(t, 2)}
	roundTrip(t, &ast.ParseTree{Top: ast.TCascadeOr{
		Left: ast.ECheckMultiSig{K: 2, Keys: pks[:2]},
		Right: ast.TAnd{
			Left:  ast.VCheckMultiSig{K: 1, Keys: pks[2:]},
			Right: ast.TCastF{F: ast.FCsv{N: 10000}},
		},
	}})
}

func TestParseTrailingAnd(t *testing.T) {
	roundTrip(t, &ast.ParseTree{Top: ast.TAnd{
		Left:  ast.VSwitchOrT{Left: ast.TCastF{F: ast.FCsv{N: 9}}, Right: ast.TCastF{F: ast.FCsv{N: 7}}},
		Right: ast.TCastF{F: ast.FCsv{N: 7}},
	}})
}

func TestParseParallelOr(t *testing.T) {
	pks := []btcec.PublicKey{testPubKey(t, 0)}
	roundTrip(t, &ast.ParseTree{Top: ast.TCastE{E: ast.EParallelOr{
		Left:  ast.ECheckMultiSig{K: 0, Keys: nil},
		Right: ast.WCheckSig{PK: pks[0]},
	}}})
}

func TestParseEmptyScript(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error on empty script")
	}
}

func TestParseLoneZero(t *testing.T) {
	script := scriptbuilder.New().AddInt64(0).Script()
	if _, err := Parse(script); err == nil {
		t.Fatal("expected error on lone OP_0")
	}
}

func TestParseLoneOne(t *testing.T) {
	script := scriptbuilder.New().AddInt64(1).Script()
	if _, err := Parse(script); err == nil {
		t.Fatal("expected error on lone OP_1")
	}
}

func TestParseLoneVerify(t *testing.T) {
	script := scriptbuilder.New().AddOp(opcode.OP_VERIFY).Script()
	if _, err := Parse(script); err == nil {
		t.Fatal("expected error on lone VERIFY")
	}
}

func TestParseIncompletePush(t *testing.T) {
	script := []byte{0x21, 0x02, 0x03} // claims a 33-byte push, supplies 2
	if _, err := Parse(script); err == nil {
		t.Fatal("expected error on truncated push")
	}
}

func TestParseNonMinimalNumber(t *testing.T) {
	// A 2-byte push of 0x01 0x00 decodes to 1, but the minimal encoding
	// of 1 is a single byte, so this push must be rejected.
	script := []byte{0x02, 0x01, 0x00, byte(opcode.OP_CHECKSEQUENCEVERIFY)}
	if _, err := Parse(script); err == nil {
		t.Fatal("expected error on non-minimal number push")
	}
}

func TestParseLeadingGarbage(t *testing.T) {
	pk := testPubKey(t, 0)
	script := scriptbuilder.New().
		AddOp(opcode.OP_DROP).
		AddData(pk.Serialize()).AddOp(opcode.OP_CHECKSIG).
		Script()
	if _, err := Parse(script); err == nil {
		t.Fatal("expected error on leftover leading token")
	}
}

func TestParseUngluedExpressions(t *testing.T) {
	// CHECKMULTISIG immediately followed by CHECKSIG with no combinator
	// in between must not parse: two top-level exprs without AND/OR glue.
	pk := testPubKey(t, 0)
	script := scriptbuilder.New().
		AddInt64(1).AddData(pk.Serialize()).AddInt64(1).AddOp(opcode.OP_CHECKMULTISIG).
		AddData(pk.Serialize()).AddOp(opcode.OP_CHECKSIG).
		Script()
	if _, err := Parse(script); err == nil {
		t.Fatal("expected error on two unglued expressions")
	}
}
