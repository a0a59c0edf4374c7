package ast

import (
	"bytes"
	"testing"

	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

func testPubKey(t *testing.T, seed byte) btcec.PublicKey {
	t.Helper()
	// A fixed, valid compressed secp256k1 point: 2*G for a deterministic
	// input, tweaked per-seed by varying the high byte of the x coordinate
	// is not guaranteed on-curve, so tests instead use literal known points.
	data := knownPubkeys[int(seed)%len(knownPubkeys)]
	pk, err := btcec.ParsePubKey(data)
	if err != nil {
		t.Fatalf("test fixture pubkey invalid: %s", err.Message())
	}
	return pk
}

// knownPubkeys are valid compressed secp256k1 points (G, 2G, 3G in
// compressed form) usable as deterministic test fixtures.
var knownPubkeys = [][]byte{
	mustHex("0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
	mustHex("02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"),
	mustHex("02f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9"),
}

func mustHex(s string) []byte {
	b := make([]byte, len(s)/2)
	for i := range b {
		var hi, lo byte
		hi = hexNibble(s[i*2])
		lo = hexNibble(s[i*2+1])
		b[i] = hi<<4 | lo
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

func serializeOf(e Elem) []byte {
	b := scriptbuilder.New()
	e.Serialize(b)
	return b.Script()
}

func TestCheckSigSerialize(t *testing.T) {
	pk := testPubKey(t, 0)
	tree := ParseTree{Top: TCastE{E: ECheckSig{PK: pk}}}
	got := tree.Serialize()

	want := scriptbuilder.New().AddData(pk.Serialize()).AddOp(opcode.OP_CHECKSIG).Script()
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestCascadeOrSerializeLiquidPolicy(t *testing.T) {
	k1, k2, k3 := testPubKey(t, 0), testPubKey(t, 1), testPubKey(t, 2)
	tree := ParseTree{
		Top: TCascadeOr{
			Left: ECheckMultiSig{K: 2, Keys: []btcec.PublicKey{k1, k2}},
			Right: TAnd{
				Left:  VCheckMultiSig{K: 1, Keys: []btcec.PublicKey{k3}},
				Right: TCastF{F: FCsv{N: 10000}},
			},
		},
	}
	got := tree.Serialize()
	if len(got) == 0 {
		t.Fatal("expected non-empty serialization")
	}
	// The IFDUP NOTIF ... ENDIF cascade must wrap the right-hand branch.
	if !bytes.Contains(got, []byte{opcode.OP_IFDUP, opcode.OP_NOTIF}) {
		t.Fatalf("serialized script missing IFDUP NOTIF cascade: %x", got)
	}
}

func TestHashEqualSerialize(t *testing.T) {
	var hash chainhash.Hash256
	tree := ParseTree{Top: THashEqual{Hash: hash}}
	got := tree.Serialize()
	want := scriptbuilder.New().
		AddOp(opcode.OP_SIZE).AddInt64(32).AddOp(opcode.OP_EQUALVERIFY).
		AddOp(opcode.OP_SHA256).AddData(hash[:]).AddOp(opcode.OP_EQUAL).Script()
	if !bytes.Equal(got, want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

func TestSwitchOrVSerialize(t *testing.T) {
	k1, k2, k3 := testPubKey(t, 0), testPubKey(t, 1), testPubKey(t, 2)
	tree := ParseTree{
		Top: TCastF{F: FSwitchOrV{
			Left: VCheckSig{PK: k1},
			Right: VAnd{
				Left:  VCheckSig{PK: k2},
				Right: VCheckSig{PK: k3},
			},
		}},
	}
	got := tree.Serialize()
	if !bytes.HasPrefix(got, []byte{opcode.OP_SIZE, opcode.OP_EQUALVERIFY, opcode.OP_IF}) {
		t.Fatalf("expected SIZE EQUALVERIFY IF prefix, got %x", got)
	}
}

func TestCheckSigSatisfyAndDissatisfy(t *testing.T) {
	pk := testPubKey(t, 0)
	e := ECheckSig{PK: pk}

	ctx := &SatCtx{Sigs: map[btcec.PublicKey][]byte{pk: {0xde, 0xad}}}
	sat, err := e.Satisfy(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if len(sat) != 1 || !bytes.Equal(sat[0], []byte{0xde, 0xad}) {
		t.Fatalf("got %v, want single signature push", sat)
	}

	dissat, err := e.Dissatisfy(nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if len(dissat) != 1 || len(dissat[0]) != 0 {
		t.Fatalf("got %v, want single empty push", dissat)
	}
}

func TestCheckSigMissingSig(t *testing.T) {
	pk := testPubKey(t, 0)
	e := ECheckSig{PK: pk}
	if _, err := e.Satisfy(&SatCtx{}); err == nil {
		t.Fatal("expected MissingSig error")
	}
}

func TestThresholdSatisfyPicksCheapest(t *testing.T) {
	k1, k2 := testPubKey(t, 0), testPubKey(t, 1)
	th := EThreshold{
		K:    1,
		Sube: ECheckSig{PK: k1},
		Subw: []W{WCheckSig{PK: k2}},
	}
	ctx := &SatCtx{Sigs: map[btcec.PublicKey][]byte{
		k1: bytes.Repeat([]byte{1}, 10),
		k2: bytes.Repeat([]byte{2}, 5),
	}}
	sat, err := th.Satisfy(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if len(sat) == 0 || !bytes.Equal(sat[0], bytes.Repeat([]byte{2}, 5)) {
		t.Fatalf("expected cheaper W satisfaction to win, got %v", sat)
	}
}

func TestRequiredKeys(t *testing.T) {
	k1, k2 := testPubKey(t, 0), testPubKey(t, 1)
	tree := ParseTree{Top: TCastE{E: EParallelAnd{
		Left:  ECheckSig{PK: k1},
		Right: WCheckSig{PK: k2},
	}}}
	keys := tree.RequiredKeys()
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
}
