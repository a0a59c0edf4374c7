package miniscript

import (
	"bytes"
	"testing"

	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/miniscript/policy"
)

var knownPubkeys = [][]byte{
	mustHex("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
	mustHex("02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"),
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

func TestCompileParseSatisfyRoundTrip(t *testing.T) {
	pk1, err := btcec.ParsePubKey(knownPubkeys[0])
	if err != nil {
		t.Fatalf("test fixture pubkey invalid: %s", err.Message())
	}
	pk2, err := btcec.ParsePubKey(knownPubkeys[1])
	if err != nil {
		t.Fatalf("test fixture pubkey invalid: %s", err.Message())
	}

	desc := policy.NewAnd(policy.NewKey(pk1), policy.NewKey(pk2))
	tree, err := Compile(desc)
	if err != nil {
		t.Fatalf("compile failed: %s", err.Message())
	}

	script := Serialize(tree)
	reparsed, err := Parse(script)
	if err != nil {
		t.Fatalf("parse failed: %s (script %x)", err.Message(), script)
	}
	if !bytes.Equal(Serialize(reparsed), script) {
		t.Fatalf("round trip mismatch: got %x, want %x", Serialize(reparsed), script)
	}

	keys := RequiredKeys(tree)
	if len(keys) != 2 {
		t.Fatalf("got %d required keys, want 2", len(keys))
	}

	ctx := NewSatCtx(
		map[btcec.PublicKey][]byte{
			pk1: bytes.Repeat([]byte{0xaa}, 71),
			pk2: bytes.Repeat([]byte{0xbb}, 71),
		},
		nil, nil, 0,
	)
	sat, err := Satisfy(tree, ctx)
	if err != nil {
		t.Fatalf("satisfy failed: %s", err.Message())
	}
	if len(sat) != 2 {
		t.Fatalf("got %d witness pushes, want 2", len(sat))
	}
}

func TestSatisfyMissingSigReturnsError(t *testing.T) {
	pk1, err := btcec.ParsePubKey(knownPubkeys[0])
	if err != nil {
		t.Fatalf("test fixture pubkey invalid: %s", err.Message())
	}
	tree, err := Compile(policy.NewKey(pk1))
	if err != nil {
		t.Fatalf("compile failed: %s", err.Message())
	}
	if _, err := Satisfy(tree, NewSatCtx(nil, nil, nil, 0)); err == nil {
		t.Fatal("expected error satisfying with no signature on hand")
	}
}
