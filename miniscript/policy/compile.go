package policy

import (
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/ast"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

// weight is the quantity the compiler minimizes at every node: the
// script-byte cost plus the expected witness cost under p, the probability
// that this subtree is satisfied (as opposed to dissatisfied) at spend time.
func weight(p float64, pkCost, satCost, dissatCost int) float64 {
	return float64(pkCost) + p*float64(satCost) + (1-p)*float64(dissatCost)
}

// pushIntLen is the byte length of the minimal push for n, used to size
// CHECKSEQUENCEVERIFY/threshold-k constants the same way the serializer
// would encode them.
func pushIntLen(n int64) int {
	return len(scriptbuilder.New().AddInt64(n).Script())
}

// multisigNumCost is the byte length of the two small-int pushes (k and
// len(keys)) that frame a CHECKMULTISIG body.
func multisigNumCost(k, n int) int {
	switch {
	case k > 16 && n > 16:
		return 4
	case n > 16, k > 16:
		return 3
	default:
		return 2
	}
}

// CostE, CostW, CostF, CostV and CostT pair a candidate AST node of the
// matching type with its pk_cost/sat_cost/dissat_cost under whatever
// probability it was compiled at. These are concrete, non-generic: the five
// grammar families never share a cost representation, so there is nothing
// for a Go generic to factor out beyond boilerplate.
type CostE struct {
	Ast                           ast.E
	PkCost, SatCost, DissatCost int
}
type CostW struct {
	Ast                           ast.W
	PkCost, SatCost, DissatCost int
}
type CostF struct {
	Ast                           ast.F
	PkCost, SatCost, DissatCost int
}
type CostV struct {
	Ast                           ast.V
	PkCost, SatCost, DissatCost int
}
type CostT struct {
	Ast                           ast.T
	PkCost, SatCost, DissatCost int
}

// bestE etc. pick the minimum-weight candidate under p. Ties are won by
// the earliest-declared candidate: the cost function is additive and the
// exact tie-break order has no effect on correctness, only on which of
// several equal-weight scripts is emitted, so declaration order is used
// for a simple, deterministic rule instead of reproducing the fold-from-
// the-back ordering of the original compiler.
func bestE(p float64, cands ...CostE) CostE {
	best := cands[0]
	bw := weight(p, best.PkCost, best.SatCost, best.DissatCost)
	for _, c := range cands[1:] {
		w := weight(p, c.PkCost, c.SatCost, c.DissatCost)
		if w < bw {
			best, bw = c, w
		}
	}
	return best
}

func bestF(p float64, cands ...CostF) CostF {
	best := cands[0]
	bw := weight(p, best.PkCost, best.SatCost, best.DissatCost)
	for _, c := range cands[1:] {
		w := weight(p, c.PkCost, c.SatCost, c.DissatCost)
		if w < bw {
			best, bw = c, w
		}
	}
	return best
}

func bestT(p float64, cands ...CostT) CostT {
	best := cands[0]
	bw := weight(p, best.PkCost, best.SatCost, best.DissatCost)
	for _, c := range cands[1:] {
		w := weight(p, c.PkCost, c.SatCost, c.DissatCost)
		if w < bw {
			best, bw = c, w
		}
	}
	return best
}

// Compile turns a fully-instantiated descriptor (concrete public keys, no
// key-derivation placeholders) into the cheapest Miniscript AST realizing
// its semantics, at the top-level satisfaction probability of 1: a
// top-level script is, by construction, expected to be satisfied.
//
// Wpkh/Sh/Wsh are output-script wrapping forms, not Miniscript fragments:
// Sh and Wsh simply compile their inner policy (the wrapping's hashing and
// witness-program construction happens above this library); Wpkh(pk) has
// no witness script of its own, so it compiles as the single-key
// CheckSig policy it is semantically equivalent to.
func Compile(desc Descriptor) (*ast.ParseTree, er.R) {
	switch desc.Kind {
	case Wpkh:
		return Compile(NewKey(desc.Key))
	case Sh:
		return Compile(*desc.Sub)
	case Wsh:
		return Compile(*desc.Sub)
	}
	t := compileT(desc, 1.0)
	return &ast.ParseTree{Top: t.Ast}, nil
}

func compileE(desc Descriptor, p float64) CostE {
	switch desc.Kind {
	case Key:
		return CostE{Ast: ast.ECheckSig{PK: desc.Key}, PkCost: 35, SatCost: 73, DissatCost: 1}

	case KeyHash:
		hash := chainhash.CalcHash160(desc.Key.Serialize())
		standard := CostE{Ast: ast.ECheckSigHash{Hash: hash}, PkCost: 25, SatCost: 34 + 73, DissatCost: 34 + 1}
		cheapDissat := CostE{Ast: ast.ECheckSigHashF{Hash: hash}, PkCost: 29, SatCost: 34 + 73, DissatCost: 1}
		return bestE(p, standard, cheapDissat)

	case Multi:
		n := len(desc.Keys)
		numCost := multisigNumCost(desc.K, n)
		standard := CostE{
			Ast: ast.ECheckMultiSig{K: desc.K, Keys: desc.Keys},
			PkCost: numCost + 34*n + 1, SatCost: 1 + 73*desc.K, DissatCost: 1 + desc.K,
		}
		cheapDissat := CostE{
			Ast: ast.ECheckMultiSigF{K: desc.K, Keys: desc.Keys},
			PkCost: numCost + 34*n + 5, SatCost: 1 + 73*desc.K, DissatCost: 1,
		}
		return bestE(p, standard, cheapDissat)

	case Time:
		f := compileF(desc, 1.0)
		return CostE{Ast: ast.ECastF{F: f.Ast}, PkCost: f.PkCost + 6, SatCost: 1, DissatCost: 2}

	case Hash:
		return CostE{Ast: ast.EHashEqual{Hash: desc.Hash}, PkCost: 31, SatCost: 33, DissatCost: 1}

	case Threshold:
		return compileThresholdE(desc, p)

	case And:
		l, r := *desc.Left, *desc.Right
		le, re := compileE(l, p), compileE(r, p)
		lw, rw := compileW(l, p), compileW(r, p)
		lf, rf := compileF(l, 1.0), compileF(r, 1.0)
		lv, rv := compileV(l, 1.0), compileV(r, 1.0)
		return bestE(p,
			CostE{ // e1 w2 BOOLAND
				Ast: ast.EParallelAnd{Left: le.Ast, Right: rw.Ast},
				PkCost: le.PkCost + rw.PkCost + 1, SatCost: le.SatCost + rw.SatCost, DissatCost: le.DissatCost + rw.DissatCost,
			},
			CostE{ // e2 w1 BOOLAND
				Ast: ast.EParallelAnd{Left: re.Ast, Right: lw.Ast},
				PkCost: lw.PkCost + re.PkCost + 1, SatCost: lw.SatCost + re.SatCost, DissatCost: lw.DissatCost + re.DissatCost,
			},
			CostE{ // e1 IF f2 ELSE 0 ENDIF
				Ast: ast.ECascadeAnd{Left: le.Ast, Right: rf.Ast},
				PkCost: le.PkCost + rf.PkCost + 4, SatCost: le.SatCost + rf.SatCost, DissatCost: le.DissatCost,
			},
			CostE{ // e2 IF f1 ELSE 0 ENDIF
				Ast: ast.ECascadeAnd{Left: re.Ast, Right: lf.Ast},
				PkCost: lf.PkCost + re.PkCost + 4, SatCost: re.SatCost + lf.SatCost, DissatCost: re.DissatCost,
			},
			CostE{ // SIZE EQUALVERIFY IF v1 f2 ELSE 0 ENDIF
				Ast: ast.ECastF{F: ast.FAnd{Left: lv.Ast, Right: rf.Ast}},
				PkCost: lv.PkCost + rf.PkCost + 6, SatCost: lv.SatCost + rf.SatCost + 1, DissatCost: 2,
			},
			CostE{ // SIZE EQUALVERIFY IF v2 f1 ELSE 0 ENDIF
				Ast: ast.ECastF{F: ast.FAnd{Left: rv.Ast, Right: lf.Ast}},
				PkCost: lf.PkCost + rv.PkCost + 6, SatCost: rv.SatCost + lf.SatCost + 1, DissatCost: 2,
			},
		)

	case Or:
		l, r := *desc.Left, *desc.Right
		le, re := compileE(l, p/2), compileE(r, p/2)
		lw, rw := compileW(l, p/2), compileW(r, p/2)
		eCand := bestE(p,
			CostE{
				Ast: ast.EParallelOr{Left: le.Ast, Right: rw.Ast},
				PkCost: le.PkCost + rw.PkCost + 1,
				SatCost: (le.SatCost + rw.SatCost + le.DissatCost + rw.DissatCost) / 2,
				DissatCost: le.DissatCost + rw.DissatCost,
			},
			CostE{
				Ast: ast.EParallelOr{Left: re.Ast, Right: lw.Ast},
				PkCost: lw.PkCost + re.PkCost + 1,
				SatCost: (lw.SatCost + re.SatCost + lw.DissatCost + re.DissatCost) / 2,
				DissatCost: lw.DissatCost + re.DissatCost,
			},
		)
		fCost := compileF(desc, p)
		fCand := CostE{Ast: ast.ECastF{F: fCost.Ast}, PkCost: fCost.PkCost + 6, SatCost: 1 + fCost.SatCost, DissatCost: 2}
		return bestE(p, eCand, fCand)

	case AsymmetricOr:
		l, r := *desc.Left, *desc.Right
		le, re := compileE(l, p), compileE(r, 0)
		lw, rw := compileW(l, p), compileW(r, 0)
		eCand := bestE(p,
			CostE{
				Ast: ast.EParallelOr{Left: le.Ast, Right: rw.Ast},
				PkCost: le.PkCost + rw.PkCost + 1, SatCost: le.SatCost + rw.DissatCost, DissatCost: le.DissatCost + rw.DissatCost,
			},
			CostE{
				Ast: ast.EParallelOr{Left: re.Ast, Right: lw.Ast},
				PkCost: lw.PkCost + re.PkCost + 1, SatCost: lw.SatCost + re.DissatCost, DissatCost: lw.DissatCost + re.DissatCost,
			},
		)
		fCost := compileF(desc, p)
		fCand := CostE{Ast: ast.ECastF{F: fCost.Ast}, PkCost: fCost.PkCost + 6, SatCost: 1 + fCost.SatCost, DissatCost: 2}
		return bestE(p, eCand, fCand)
	}
	panic("unreachable descriptor kind in compileE")
}

func compileThresholdE(desc Descriptor, p float64) CostE {
	if len(desc.Subs) == 0 {
		panic("empty threshold in descriptor")
	}
	numCost := pushIntLen(int64(desc.K))
	subP := p * float64(desc.K) / float64(len(desc.Subs))
	e := compileE(desc.Subs[0], subP)
	pk, sat, dissat := 1+numCost+e.PkCost, e.SatCost, e.DissatCost
	ws := make([]ast.W, 0, len(desc.Subs)-1)
	for _, sub := range desc.Subs[1:] {
		w := compileW(sub, subP)
		pk += w.PkCost
		sat += w.SatCost
		dissat += w.DissatCost
		ws = append(ws, w.Ast)
	}
	n := len(desc.Subs)
	return CostE{
		Ast:        ast.EThreshold{K: desc.K, Sube: e.Ast, Subw: ws},
		PkCost:     pk,
		SatCost:    sat * desc.K / n,
		DissatCost: dissat * desc.K / n,
	}
}

func compileW(desc Descriptor, p float64) CostW {
	switch desc.Kind {
	case Key:
		return CostW{Ast: ast.WCheckSig{PK: desc.Key}, PkCost: 36, SatCost: 73, DissatCost: 1}
	case Hash:
		return CostW{Ast: ast.WHashEqual{Hash: desc.Hash}, PkCost: 32, SatCost: 33, DissatCost: 1}
	case Time:
		numCost := pushIntLen(int64(desc.N))
		return CostW{Ast: ast.WCsv{N: desc.N}, PkCost: 8 + numCost, SatCost: 1, DissatCost: 2}
	default:
		e := compileE(desc, p)
		return CostW{Ast: ast.WCastE{E: e.Ast}, PkCost: e.PkCost + 2, SatCost: e.SatCost, DissatCost: e.DissatCost}
	}
}

func compileF(desc Descriptor, p float64) CostF {
	switch desc.Kind {
	case Key:
		return CostF{Ast: ast.FCheckSig{PK: desc.Key}, PkCost: 36, SatCost: 73, DissatCost: 0}

	case KeyHash:
		hash := chainhash.CalcHash160(desc.Key.Serialize())
		return CostF{Ast: ast.FCheckSigHash{Hash: hash}, PkCost: 26, SatCost: 34 + 73, DissatCost: 0}

	case Multi:
		n := len(desc.Keys)
		numCost := multisigNumCost(desc.K, n)
		return CostF{
			Ast: ast.FCheckMultiSig{K: desc.K, Keys: desc.Keys},
			PkCost: numCost + 34*n + 2, SatCost: 1 + 73*desc.K, DissatCost: 0,
		}

	case Threshold:
		if len(desc.Subs) == 0 {
			panic("empty threshold in descriptor")
		}
		numCost := pushIntLen(int64(desc.K))
		subP := p * float64(desc.K) / float64(len(desc.Subs))
		e := compileE(desc.Subs[0], subP)
		pk, sat, dissat := 2+numCost+e.PkCost, e.SatCost, e.DissatCost
		ws := make([]ast.W, 0, len(desc.Subs)-1)
		for _, sub := range desc.Subs[1:] {
			w := compileW(sub, subP)
			pk += w.PkCost
			sat += w.SatCost
			dissat += w.DissatCost
			ws = append(ws, w.Ast)
		}
		n := len(desc.Subs)
		return CostF{
			Ast: ast.FThreshold{K: desc.K, Sube: e.Ast, Subw: ws},
			PkCost: pk, SatCost: sat * desc.K / n, DissatCost: dissat * desc.K / n,
		}

	case Time:
		numCost := pushIntLen(int64(desc.N))
		return CostF{Ast: ast.FCsv{N: desc.N}, PkCost: 1 + numCost, SatCost: 0, DissatCost: 0}

	case Hash:
		return CostF{Ast: ast.FHashEqual{Hash: desc.Hash}, PkCost: 28, SatCost: 33, DissatCost: 0}

	case And:
		l, r := *desc.Left, *desc.Right
		vl, vr := compileV(l, p), compileV(r, p)
		fl, fr := compileF(l, p), compileF(r, p)
		if vl.PkCost+fr.PkCost+vl.SatCost+fr.SatCost < vr.PkCost+fl.PkCost+vr.SatCost+fl.SatCost {
			return CostF{Ast: ast.FAnd{Left: vl.Ast, Right: fr.Ast}, PkCost: vl.PkCost + fr.PkCost, SatCost: vl.SatCost + fr.SatCost, DissatCost: 0}
		}
		return CostF{Ast: ast.FAnd{Left: vr.Ast, Right: fl.Ast}, PkCost: vr.PkCost + fl.PkCost, SatCost: vr.SatCost + fl.SatCost, DissatCost: 0}

	case Or:
		l, r := *desc.Left, *desc.Right
		le, re := compileE(l, p/2), compileE(r, p/2)
		lw, rw := compileW(l, p/2), compileW(r, p/2)
		lf, rf := compileF(l, 1.0), compileF(r, 1.0)
		lv, rv := compileV(l, 1.0), compileV(r, 1.0)
		return bestF(p,
			CostF{Ast: ast.FParallelOr{Left: le.Ast, Right: rw.Ast}, PkCost: le.PkCost + rw.PkCost + 3,
				SatCost: (le.SatCost + rw.SatCost + le.DissatCost + rw.DissatCost) / 2, DissatCost: 0},
			CostF{Ast: ast.FParallelOr{Left: re.Ast, Right: lw.Ast}, PkCost: lw.PkCost + re.PkCost + 3,
				SatCost: (re.SatCost + lw.SatCost + re.DissatCost + lw.DissatCost) / 2, DissatCost: 0},
			CostF{Ast: ast.FCascadeOr{Left: le.Ast, Right: rf.Ast}, PkCost: le.PkCost + rf.PkCost + 3,
				SatCost: (le.SatCost + le.DissatCost + rf.SatCost) / 2, DissatCost: 0},
			CostF{Ast: ast.FCascadeOr{Left: re.Ast, Right: lf.Ast}, PkCost: lf.PkCost + re.PkCost + 3,
				SatCost: (re.SatCost + re.DissatCost + lf.SatCost) / 2, DissatCost: 0},
			CostF{Ast: ast.FCascadeOrV{Left: le.Ast, Right: rv.Ast}, PkCost: le.PkCost + rv.PkCost + 3,
				SatCost: (le.SatCost + le.DissatCost + rv.SatCost) / 2, DissatCost: 0},
			CostF{Ast: ast.FCascadeOrV{Left: re.Ast, Right: lv.Ast}, PkCost: lv.PkCost + re.PkCost + 3,
				SatCost: (re.SatCost + re.DissatCost + lv.SatCost) / 2, DissatCost: 0},
			CostF{Ast: ast.FSwitchOr{Left: lf.Ast, Right: rf.Ast}, PkCost: lf.PkCost + rf.PkCost + 5,
				SatCost: (lf.SatCost + rf.SatCost + 3) / 2, DissatCost: 0},
			CostF{Ast: ast.FSwitchOrV{Left: lv.Ast, Right: rv.Ast}, PkCost: lv.PkCost + rv.PkCost + 6,
				SatCost: (lv.SatCost + rv.SatCost + 3) / 2, DissatCost: 0},
		)

	case AsymmetricOr:
		l, r := *desc.Left, *desc.Right
		le, re := compileE(l, p), compileE(r, 0)
		lw, rw := compileW(l, p), compileW(r, 0)
		lf, rf := compileF(l, 1.0), compileF(r, 1.0)
		lv, rv := compileV(l, 1.0), compileV(r, 1.0)
		return bestF(p,
			CostF{Ast: ast.FParallelOr{Left: le.Ast, Right: rw.Ast}, PkCost: le.PkCost + rw.PkCost + 3,
				SatCost: le.SatCost + rw.DissatCost, DissatCost: 0},
			CostF{Ast: ast.FParallelOr{Left: re.Ast, Right: lw.Ast}, PkCost: lw.PkCost + re.PkCost + 3,
				SatCost: lw.SatCost + re.DissatCost, DissatCost: 0},
			CostF{Ast: ast.FCascadeOr{Left: le.Ast, Right: rf.Ast}, PkCost: le.PkCost + rf.PkCost + 3,
				SatCost: le.SatCost, DissatCost: 0},
			CostF{Ast: ast.FCascadeOr{Left: re.Ast, Right: lf.Ast}, PkCost: lf.PkCost + re.PkCost + 3,
				SatCost: re.DissatCost + lf.SatCost, DissatCost: 0},
			CostF{Ast: ast.FCascadeOrV{Left: le.Ast, Right: rv.Ast}, PkCost: le.PkCost + rv.PkCost + 3,
				SatCost: le.SatCost, DissatCost: 0},
			CostF{Ast: ast.FCascadeOrV{Left: re.Ast, Right: lv.Ast}, PkCost: lv.PkCost + re.PkCost + 3,
				SatCost: re.DissatCost + lv.SatCost, DissatCost: 0},
			CostF{Ast: ast.FSwitchOr{Left: rf.Ast, Right: lf.Ast}, PkCost: lf.PkCost + rf.PkCost + 5,
				SatCost: lf.SatCost + 1, DissatCost: 0},
			CostF{Ast: ast.FSwitchOrV{Left: rv.Ast, Right: lv.Ast}, PkCost: lv.PkCost + rv.PkCost + 6,
				SatCost: lv.SatCost + 1, DissatCost: 0},
		)
	}
	panic("unreachable descriptor kind in compileF")
}

func compileV(desc Descriptor, p float64) CostV {
	switch desc.Kind {
	case Key:
		return CostV{Ast: ast.VCheckSig{PK: desc.Key}, PkCost: 35, SatCost: 73, DissatCost: 0}

	case KeyHash:
		hash := chainhash.CalcHash160(desc.Key.Serialize())
		return CostV{Ast: ast.VCheckSigHash{Hash: hash}, PkCost: 25, SatCost: 34 + 73, DissatCost: 0}

	case Multi:
		n := len(desc.Keys)
		numCost := multisigNumCost(desc.K, n)
		return CostV{
			Ast: ast.VCheckMultiSig{K: desc.K, Keys: desc.Keys},
			PkCost: numCost + 34*n + 1, SatCost: 1 + 73*desc.K, DissatCost: 0,
		}

	case Time:
		numCost := pushIntLen(int64(desc.N))
		return CostV{Ast: ast.VCsv{N: desc.N}, PkCost: 2 + numCost, SatCost: 0, DissatCost: 0}

	case Hash:
		return CostV{Ast: ast.VHashEqual{Hash: desc.Hash}, PkCost: 27, SatCost: 33, DissatCost: 1}

	case Threshold:
		if len(desc.Subs) == 0 {
			panic("empty threshold in descriptor")
		}
		numCost := pushIntLen(int64(desc.K))
		subP := p * float64(desc.K) / float64(len(desc.Subs))
		e := compileE(desc.Subs[0], subP)
		pk, sat, dissat := 1+numCost+e.PkCost, e.SatCost, e.DissatCost
		ws := make([]ast.W, 0, len(desc.Subs)-1)
		for _, sub := range desc.Subs[1:] {
			w := compileW(sub, subP)
			pk += w.PkCost
			sat += w.SatCost
			dissat += w.DissatCost
			ws = append(ws, w.Ast)
		}
		n := len(desc.Subs)
		return CostV{
			Ast: ast.VThreshold{K: desc.K, Sube: e.Ast, Subw: ws},
			PkCost: pk, SatCost: sat * desc.K / n, DissatCost: dissat * desc.K / n,
		}

	case And:
		l, r := *desc.Left, *desc.Right
		lc, rc := compileV(l, p), compileV(r, p)
		return CostV{Ast: ast.VAnd{Left: lc.Ast, Right: rc.Ast}, PkCost: lc.PkCost + rc.PkCost, SatCost: lc.SatCost + rc.SatCost, DissatCost: 0}
	}
	// The reference compiler has no V-typed rule for Or/AsymmetricOr: a V
	// fragment must be unconditionally satisfied, which an Or can never
	// guarantee without an extra wrapping (CastF, SwitchOrT, ...) that the
	// caller is expected to apply at the point a V is actually needed.
	panic("no V compilation rule for this descriptor kind")
}

func compileT(desc Descriptor, p float64) CostT {
	switch desc.Kind {
	case Key, KeyHash, Multi:
		e := compileE(desc, p)
		return CostT{Ast: ast.TCastE{E: e.Ast}, PkCost: e.PkCost, SatCost: e.SatCost, DissatCost: 0}

	case Time:
		f := compileF(desc, p)
		return CostT{Ast: ast.TCastF{F: f.Ast}, PkCost: f.PkCost, SatCost: f.SatCost, DissatCost: 0}

	case Hash:
		return CostT{Ast: ast.THashEqual{Hash: desc.Hash}, PkCost: 27, SatCost: 33, DissatCost: 0}

	case And, Or, AsymmetricOr, Threshold:
		e := compileE(desc, 1.0)
		f := compileF(desc, 1.0)
		options := []CostT{
			{Ast: ast.TCastE{E: e.Ast}, PkCost: e.PkCost, SatCost: e.SatCost, DissatCost: 0},
			{Ast: ast.TCastF{F: f.Ast}, PkCost: f.PkCost, SatCost: f.SatCost, DissatCost: 0},
		}
		switch desc.Kind {
		case And:
			l, r := *desc.Left, *desc.Right
			lv, rv := compileV(l, 1.0), compileV(r, 1.0)
			lt, rt := compileT(l, 1.0), compileT(r, 1.0)
			options = append(options,
				CostT{Ast: ast.TAnd{Left: lv.Ast, Right: rt.Ast}, PkCost: lv.PkCost + rt.PkCost, SatCost: lv.SatCost + rt.SatCost, DissatCost: 0},
				CostT{Ast: ast.TAnd{Left: rv.Ast, Right: lt.Ast}, PkCost: lt.PkCost + rv.PkCost, SatCost: lt.SatCost + rv.SatCost, DissatCost: 0},
			)
		case Or:
			l, r := *desc.Left, *desc.Right
			le, re := compileE(l, p/2), compileE(r, p/2)
			lt, rt := compileT(l, 1.0), compileT(r, 1.0)
			options = append(options,
				CostT{Ast: ast.TCascadeOr{Left: le.Ast, Right: rt.Ast}, PkCost: le.PkCost + rt.PkCost + 3,
					SatCost: (le.SatCost + le.DissatCost + rt.SatCost) / 2, DissatCost: 0},
				CostT{Ast: ast.TCascadeOr{Left: re.Ast, Right: lt.Ast}, PkCost: lt.PkCost + re.PkCost + 3,
					SatCost: (re.SatCost + re.DissatCost + lt.SatCost) / 2, DissatCost: 0},
				CostT{Ast: ast.TSwitchOr{Left: lt.Ast, Right: rt.Ast}, PkCost: le.PkCost + rt.PkCost + 5,
					SatCost: (le.SatCost + re.SatCost + 3) / 2, DissatCost: 0},
			)
		case AsymmetricOr:
			l, r := *desc.Left, *desc.Right
			le, re := compileE(l, p), compileE(r, 0)
			lt, rt := compileT(l, 1.0), compileT(r, 1.0)
			options = append(options,
				CostT{Ast: ast.TCascadeOr{Left: le.Ast, Right: rt.Ast}, PkCost: le.PkCost + rt.PkCost + 3,
					SatCost: le.SatCost, DissatCost: 0},
				CostT{Ast: ast.TCascadeOr{Left: re.Ast, Right: lt.Ast}, PkCost: lt.PkCost + re.PkCost + 3,
					SatCost: re.DissatCost + lt.SatCost, DissatCost: 0},
				CostT{Ast: ast.TSwitchOr{Left: rt.Ast, Right: lt.Ast}, PkCost: le.PkCost + rt.PkCost + 5,
					SatCost: le.SatCost + 1, DissatCost: 0},
			)
		}
		best := options[0]
		bestScore := best.PkCost + best.SatCost
		for _, c := range options[1:] {
			if score := c.PkCost + c.SatCost; score < bestScore {
				best, bestScore = c, score
			}
		}
		return best
	}
	panic("unreachable descriptor kind in compileT")
}
