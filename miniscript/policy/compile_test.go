package policy

import (
	"bytes"
	"testing"

	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/miniscript/ast"
	"github.com/pkt-cash/miniscript/miniscript/parse"
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

func TestCompileKey(t *testing.T) {
	pk := testPubKey(t, 0)
	tree, err := Compile(NewKey(pk))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	cast, ok := tree.Top.(ast.TCastE)
	if !ok {
		t.Fatalf("got %T, want TCastE", tree.Top)
	}
	cs, ok := cast.E.(ast.ECheckSig)
	if !ok {
		t.Fatalf("got %T, want ECheckSig", cast.E)
	}
	if cs.PK != pk {
		t.Fatal("compiled key does not match input")
	}
}

func TestCompileKeyHashPicksCheaperVariantByProbability(t *testing.T) {
	pk := testPubKey(t, 0)
	// At p=1 (top-level, always satisfied) the weight function should favor
	// whichever ECheckSigHash variant has the lower pk_cost + sat_cost, since
	// the dissat branch is never reached in expectation.
	std := compileE(NewKeyHash(pk), 1.0)
	if _, ok := std.Ast.(ast.ECheckSigHash); !ok {
		t.Fatalf("got %T, want standard ECheckSigHash at p=1", std.Ast)
	}
}

func TestCompileMulti(t *testing.T) {
	pks := []btcec.PublicKey{testPubKey(t, 0), testPubKey(t, 1), testPubKey(t, 2)}
	tree, err := Compile(NewMulti(2, pks))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	cast, ok := tree.Top.(ast.TCastE)
	if !ok {
		t.Fatalf("got %T, want TCastE", tree.Top)
	}
	ms, ok := cast.E.(ast.ECheckMultiSig)
	if !ok {
		t.Fatalf("got %T, want ECheckMultiSig", cast.E)
	}
	if ms.K != 2 || len(ms.Keys) != 3 {
		t.Fatalf("got k=%d n=%d, want k=2 n=3", ms.K, len(ms.Keys))
	}
}

func TestCompileHash(t *testing.T) {
	var hash chainhash.Hash256
	tree, err := Compile(NewHash(hash))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if _, ok := tree.Top.(ast.THashEqual); !ok {
		t.Fatalf("got %T, want THashEqual", tree.Top)
	}
}

func TestCompileTime(t *testing.T) {
	tree, err := Compile(NewTime(144))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	cast, ok := tree.Top.(ast.TCastF)
	if !ok {
		t.Fatalf("got %T, want TCastF", tree.Top)
	}
	if _, ok := cast.F.(ast.FCsv); !ok {
		t.Fatalf("got %T, want FCsv", cast.F)
	}
}

func TestCompileAndRequiresBothKeys(t *testing.T) {
	pk1, pk2 := testPubKey(t, 0), testPubKey(t, 1)
	tree, err := Compile(NewAnd(NewKey(pk1), NewKey(pk2)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	keys := tree.RequiredKeys()
	if len(keys) != 2 {
		t.Fatalf("got %d required keys, want 2", len(keys))
	}
}

func TestCompileOrRequiresEitherKey(t *testing.T) {
	pk1, pk2 := testPubKey(t, 0), testPubKey(t, 1)
	tree, err := Compile(NewOr(NewKey(pk1), NewKey(pk2)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	keys := tree.RequiredKeys()
	if len(keys) != 2 {
		t.Fatalf("got %d required keys, want 2", len(keys))
	}
}

func TestCompileAsymmetricOrKeepsBothKeys(t *testing.T) {
	pk1, pk2 := testPubKey(t, 0), testPubKey(t, 1)
	tree, err := Compile(NewAsymmetricOr(NewKey(pk1), NewKey(pk2)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if len(tree.RequiredKeys()) != 2 {
		t.Fatal("expected both keys to be reachable from the compiled tree")
	}
}

func TestCompileFAsymmetricOrSwitchOrBindsLeftFCost(t *testing.T) {
	// aor(time(144), hash(h)): Time's E-compilation has sat_cost 1, its
	// F-compilation has sat_cost 0. At p=1 the true minimum is
	// FSwitchOr{hash-F, time-F} (weight 35+numCost), beating
	// FCascadeOr{hash-E, time-F} (weight 36+numCost) by exactly 1. Binding
	// FSwitchOr's sat_cost to the left branch's E-compilation instead of its
	// F-compilation inflates FSwitchOr's weight to 36+numCost, tying
	// FCascadeOr and losing the tie-break to it (declared earlier) -- a
	// non-minimal pick.
	var hash chainhash.Hash256
	desc := NewAsymmetricOr(NewTime(144), NewHash(hash))
	got := compileF(desc, 1.0)

	sw, ok := got.Ast.(ast.FSwitchOr)
	if !ok {
		t.Fatalf("got %T, want FSwitchOr (the minimal encoding)", got.Ast)
	}
	if _, ok := sw.Left.(ast.FHashEqual); !ok {
		t.Fatalf("FSwitchOr.Left = %T, want FHashEqual", sw.Left)
	}
	if _, ok := sw.Right.(ast.FCsv); !ok {
		t.Fatalf("FSwitchOr.Right = %T, want FCsv", sw.Right)
	}

	want := ast.FSwitchOr{Left: ast.FHashEqual{Hash: hash}, Right: ast.FCsv{N: 144}}
	wantBuilder := scriptbuilder.New()
	want.Serialize(wantBuilder)
	gotBuilder := scriptbuilder.New()
	got.Ast.Serialize(gotBuilder)
	if !bytes.Equal(gotBuilder.Script(), wantBuilder.Script()) {
		t.Fatalf("got %x, want %x", gotBuilder.Script(), wantBuilder.Script())
	}
}

func TestCompileThresholdTwoOfThree(t *testing.T) {
	pks := []btcec.PublicKey{testPubKey(t, 0), testPubKey(t, 1), testPubKey(t, 2)}
	subs := []Descriptor{NewKey(pks[0]), NewKey(pks[1]), NewKey(pks[2])}
	tree, err := Compile(NewThreshold(2, subs))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if len(tree.RequiredKeys()) != 3 {
		t.Fatalf("got %d required keys, want 3", len(tree.RequiredKeys()))
	}
}

func TestCompileEmptyThresholdPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty threshold")
		}
	}()
	_, _ = Compile(NewThreshold(1, nil))
}

func TestCompileWpkhIsEquivalentToKey(t *testing.T) {
	pk := testPubKey(t, 0)
	wpkhTree, err := Compile(NewWpkh(pk))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	keyTree, err := Compile(NewKey(pk))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if wpkhTree.Serialize() == nil || keyTree.Serialize() == nil {
		t.Fatal("expected non-nil serialization")
	}
	if string(wpkhTree.Serialize()) != string(keyTree.Serialize()) {
		t.Fatalf("Wpkh(pk) should compile identically to Key(pk)")
	}
}

func TestCompileShRecursesIntoSub(t *testing.T) {
	pk := testPubKey(t, 0)
	shTree, err := Compile(NewSh(NewKey(pk)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	keyTree, err := Compile(NewKey(pk))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if string(shTree.Serialize()) != string(keyTree.Serialize()) {
		t.Fatalf("Sh(Key(pk)) should compile identically to Key(pk)")
	}
}

func TestCompileWshRecursesIntoSub(t *testing.T) {
	pk := testPubKey(t, 0)
	wshTree, err := Compile(NewWsh(NewKey(pk)))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	keyTree, err := Compile(NewKey(pk))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	if string(wshTree.Serialize()) != string(keyTree.Serialize()) {
		t.Fatalf("Wsh(Key(pk)) should compile identically to Key(pk)")
	}
}

func TestCompileVHasNoOrRulePanics(t *testing.T) {
	pk1, pk2 := testPubKey(t, 0), testPubKey(t, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic: V has no compilation rule for Or")
		}
	}()
	compileV(NewOr(NewKey(pk1), NewKey(pk2)), 1.0)
}

func TestCompileRoundTripsThroughParser(t *testing.T) {
	pk1, pk2 := testPubKey(t, 0), testPubKey(t, 1)
	tree, err := Compile(NewAnd(NewKey(pk1), NewOr(NewKey(pk2), NewTime(144))))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}
	script := tree.Serialize()
	if len(script) == 0 {
		t.Fatal("expected non-empty compiled script")
	}
	got, perr := parse.Parse(script)
	if perr != nil {
		t.Fatalf("compiled script failed to parse: %s (script %x)", perr.Message(), script)
	}
	if !bytes.Equal(got.Serialize(), script) {
		t.Fatalf("round trip mismatch: got %x, want %x", got.Serialize(), script)
	}
}
