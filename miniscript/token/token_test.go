package token

import (
	"bytes"
	"testing"

	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

func TestLexSmallInts(t *testing.T) {
	script := scriptbuilder.New().AddOp(opcode.OP_0).AddOp(opcode.OP_1).AddOp(opcode.OP_16).Script()
	toks, err := Lex(script)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	want := []uint32{0, 1, 16}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Kind != Number || toks[i].Num != w {
			t.Fatalf("token %d = %+v, want Number(%d)", i, toks[i], w)
		}
	}
}

func TestLexRejectsNonMinimalPush(t *testing.T) {
	// A two-byte push encoding the value 1 (0x01 0x00) is never minimal:
	// the minimal encoding of 1 is a single byte.
	script := []byte{0x02, 0x01, 0x00}
	if _, err := Lex(script); err == nil {
		t.Fatal("expected InvalidPush error, got nil")
	}
}

func TestLexHash160Push(t *testing.T) {
	h := bytes.Repeat([]byte{0xAB}, 20)
	script := scriptbuilder.New().AddData(h).Script()
	toks, err := Lex(script)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if len(toks) != 1 || toks[0].Kind != Hash160Hash {
		t.Fatalf("got %+v, want single Hash160Hash token", toks)
	}
}

func TestIterTailFirst(t *testing.T) {
	toks := []Token{{Kind: Number, Num: 1}, {Kind: Add}, {Kind: CheckSig}}
	it := NewIter(toks)
	tok, ok := it.Next()
	if !ok || tok.Kind != CheckSig {
		t.Fatalf("first Next() = %+v, want CheckSig", tok)
	}
	tok, ok = it.Next()
	if !ok || tok.Kind != Add {
		t.Fatalf("second Next() = %+v, want Add", tok)
	}
	it.UnNext()
	tok, ok = it.Next()
	if !ok || tok.Kind != Add {
		t.Fatalf("after UnNext, Next() = %+v, want Add", tok)
	}
	tok, ok = it.Next()
	if !ok || tok.Kind != Number || tok.Num != 1 {
		t.Fatalf("third Next() = %+v, want Number(1)", tok)
	}
	if _, ok := it.Next(); ok {
		t.Fatal("expected Next() to report false at start of stream")
	}
}
