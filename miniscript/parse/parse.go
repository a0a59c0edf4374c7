// Package parse implements the reverse, tail-first Miniscript parser: a
// script is lexed into a flat token slice and the grammar is recovered by
// repeatedly inspecting the token at the *end* of the remaining stream,
// mirroring parse_subexpression/TokenIter from the original Rust parser.
package parse

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/ast"
	"github.com/pkt-cash/miniscript/miniscript/mserr"
	"github.com/pkt-cash/miniscript/miniscript/token"
)

// Parse lexes and parses a complete Script into a ParseTree. Every token
// must be consumed; trailing garbage at the head of the script is an error.
func Parse(script []byte) (*ast.ParseTree, er.R) {
	toks, err := token.Lex(script)
	if err != nil {
		return nil, err
	}
	it := token.NewIter(toks)
	elem, err := parseSubexpression(it)
	if err != nil {
		return nil, err
	}
	top, err := intoT(elem)
	if err != nil {
		return nil, err
	}
	if !it.Done() {
		return nil, mserr.New(mserr.Unexpected, "leftover tokens at head of script")
	}
	return &ast.ParseTree{Top: top}, nil
}

func unexpected(tok token.Token) er.R {
	return mserr.New(mserr.Unexpected, tok.String())
}

func unexpectedElem(elem ast.Elem) er.R {
	return mserr.New(mserr.Unexpected, "subexpression of the wrong type")
}

func errUnexpectedStart() er.R {
	return mserr.New(mserr.UnexpectedStart, "")
}

// next requires another token and fails with UnexpectedStart otherwise.
func next(it *token.Iter) (token.Token, er.R) {
	tok, ok := it.Next()
	if !ok {
		return token.Token{}, errUnexpectedStart()
	}
	return tok, nil
}

// expect requires the next token to have the given kind.
func expect(it *token.Iter, kind token.Kind) er.R {
	tok, err := next(it)
	if err != nil {
		return err
	}
	if tok.Kind != kind {
		return unexpected(tok)
	}
	return nil
}

// expectNumber requires the next token to be Number(n).
func expectNumber(it *token.Iter, n uint32) er.R {
	tok, err := next(it)
	if err != nil {
		return err
	}
	if tok.Kind != token.Number || tok.Num != n {
		return unexpected(tok)
	}
	return nil
}

func intoE(elem ast.Elem) (ast.E, er.R) {
	if e, ok := elem.(ast.E); ok {
		return e, nil
	}
	return nil, unexpectedElem(elem)
}

func intoW(elem ast.Elem) (ast.W, er.R) {
	if w, ok := elem.(ast.W); ok {
		return w, nil
	}
	return nil, unexpectedElem(elem)
}

func intoF(elem ast.Elem) (ast.F, er.R) {
	if f, ok := elem.(ast.F); ok {
		return f, nil
	}
	return nil, unexpectedElem(elem)
}

func intoV(elem ast.Elem) (ast.V, er.R) {
	if v, ok := elem.(ast.V); ok {
		return v, nil
	}
	return nil, unexpectedElem(elem)
}

// intoT coerces any Elem into T: T itself is unchanged, E and F are
// wrapped in the corresponding cast node.
func intoT(elem ast.Elem) (ast.T, er.R) {
	if t, ok := elem.(ast.T); ok {
		return t, nil
	}
	if e, ok := elem.(ast.E); ok {
		return ast.TCastE{E: e}, nil
	}
	if f, ok := elem.(ast.F); ok {
		return ast.TCastF{F: f}, nil
	}
	return nil, unexpectedElem(elem)
}

// parseSubexpression parses one grammar production off the tail of the
// remaining token stream, dispatching on the trailing token. It is the
// direct counterpart of parse_subexpression in the original parser.
func parseSubexpression(it *token.Iter) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}

	var ret ast.Elem
	switch tok.Kind {
	case token.BoolAnd:
		wsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		wexpr, err := intoW(wsub)
		if err != nil {
			return nil, err
		}
		esub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		expr, err := intoE(esub)
		if err != nil {
			return nil, err
		}
		ret = ast.EParallelAnd{Left: expr, Right: wexpr}

	case token.BoolOr:
		wsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		wexpr, err := intoW(wsub)
		if err != nil {
			return nil, err
		}
		esub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		expr, err := intoE(esub)
		if err != nil {
			return nil, err
		}
		ret = ast.EParallelOr{Left: expr, Right: wexpr}

	case token.Equal:
		ret, err = parseEqual(it)
		if err != nil {
			return nil, err
		}

	case token.EqualVerify:
		ret, err = parseEqualVerify(it)
		if err != nil {
			return nil, err
		}

	case token.CheckSig:
		ret, err = parseCheckSig(it)
		if err != nil {
			return nil, err
		}

	case token.CheckSigVerify:
		ret, err = parseCheckSigVerify(it)
		if err != nil {
			return nil, err
		}

	case token.CheckMultiSig:
		k, pks, err := parseMultisigBody(it)
		if err != nil {
			return nil, err
		}
		ret = ast.ECheckMultiSig{K: k, Keys: pks}

	case token.CheckMultiSigVerify:
		k, pks, err := parseMultisigBody(it)
		if err != nil {
			return nil, err
		}
		ret = ast.VCheckMultiSig{K: k, Keys: pks}

	case token.CheckSequenceVerify:
		n, err := next(it)
		if err != nil {
			return nil, err
		}
		if n.Kind != token.Number {
			return nil, unexpected(n)
		}
		ret = ast.FCsv{N: n.Num}

	case token.FromAltStack:
		esub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		expr, err := intoE(esub)
		if err != nil {
			return nil, err
		}
		if err := expect(it, token.ToAltStack); err != nil {
			return nil, err
		}
		ret = ast.WCastE{E: expr}

	case token.Drop:
		if err := expect(it, token.CheckSequenceVerify); err != nil {
			return nil, err
		}
		n, err := next(it)
		if err != nil {
			return nil, err
		}
		if n.Kind != token.Number {
			return nil, unexpected(n)
		}
		ret = ast.VCsv{N: n.Num}

	case token.EndIf:
		ret, err = parseEndIf(it)
		if err != nil {
			return nil, err
		}

	case token.Verify:
		ret, err = parseVerify(it)
		if err != nil {
			return nil, err
		}

	case token.Number:
		if tok.Num != 1 {
			return nil, unexpected(tok)
		}
		ret, err = parseNumberOneIntoF(it)
		if err != nil {
			return nil, err
		}

	default:
		return nil, unexpected(tok)
	}

	return applyTrailingAnd(it, ret)
}

// applyTrailingAnd implements the "vexpr [tfv]expr AND" suffix rule: a
// T/F/V result followed by more tokens (other than a dangling If/NotIf/
// Else belonging to an enclosing combinator) consumes one more
// subexpression coerced to V and prepends it as an implicit And. E and F
// results both implicitly cast to T (the same coercion intoT performs),
// so only a bare V ever produces V::And here; F::And is never reachable
// through parsing and is built by the compiler alone.
func applyTrailingAnd(it *token.Iter, ret ast.Elem) (ast.Elem, er.R) {
	_, isE := ret.(ast.E)
	_, isF := ret.(ast.F)
	_, isT := ret.(ast.T)
	_, isV := ret.(ast.V)
	qualifiesT := isE || isF || isT
	if !qualifiesT && !isV {
		return ret, nil
	}

	peek, ok := it.Peek()
	if !ok {
		return ret, nil
	}
	switch peek.Kind {
	case token.If, token.NotIf, token.Else:
		return ret, nil
	}

	lsub, err := parseSubexpression(it)
	if err != nil {
		return nil, err
	}
	left, err := intoV(lsub)
	if err != nil {
		return nil, err
	}

	if qualifiesT {
		right, err := intoT(ret)
		if err != nil {
			return nil, err
		}
		return ast.TAnd{Left: left, Right: right}, nil
	}
	return ast.VAnd{Left: left, Right: ret.(ast.V)}, nil
}

func parseEqual(it *token.Iter) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Sha256Hash {
		hash := tok.H256
		if err := expect(it, token.Sha256); err != nil {
			return nil, err
		}
		if err := expect(it, token.EqualVerify); err != nil {
			return nil, err
		}
		if err := expectNumber(it, 32); err != nil {
			return nil, err
		}
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		return ast.THashEqual{Hash: hash}, nil
	}
	if tok.Kind != token.Number {
		return nil, unexpected(tok)
	}
	k := tok.Num
	var ws []ast.W
	var e ast.E
	for {
		n, err := next(it)
		if err != nil {
			return nil, err
		}
		if n.Kind == token.Add {
			nsub, err := parseSubexpression(it)
			if err != nil {
				return nil, err
			}
			w, err := intoW(nsub)
			if err != nil {
				return nil, err
			}
			ws = append(ws, w)
			continue
		}
		it.UnNext()
		nsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		e, err = intoE(nsub)
		if err != nil {
			return nil, err
		}
		break
	}
	for i, j := 0, len(ws)-1; i < j; i, j = i+1, j-1 {
		ws[i], ws[j] = ws[j], ws[i]
	}
	return ast.EThreshold{K: int(k), Sube: e, Subw: ws}, nil
}

func parseEqualVerify(it *token.Iter) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	if tok.Kind == token.Sha256Hash {
		hash := tok.H256
		if err := expect(it, token.Sha256); err != nil {
			return nil, err
		}
		if err := expect(it, token.EqualVerify); err != nil {
			return nil, err
		}
		if err := expectNumber(it, 32); err != nil {
			return nil, err
		}
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		return ast.VHashEqual{Hash: hash}, nil
	}
	if tok.Kind != token.Number {
		return nil, unexpected(tok)
	}
	k := tok.Num
	var ws []ast.W
	var e ast.E
	for {
		added := false
		if n, ok := it.Peek(); ok && n.Kind == token.Add {
			it.Next()
			added = true
		}
		nsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		if w, ok := nsub.(ast.W); ok && added {
			ws = append(ws, w)
			continue
		}
		if ee, ok := nsub.(ast.E); ok && !added {
			e = ee
			break
		}
		return nil, unexpectedElem(nsub)
	}
	for i, j := 0, len(ws)-1; i < j; i, j = i+1, j-1 {
		ws[i], ws[j] = ws[j], ws[i]
	}
	return ast.VThreshold{K: int(k), Sube: e, Subw: ws}, nil
}

func parseCheckSig(it *token.Iter) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.EqualVerify:
		hashTok, err := next(it)
		if err != nil {
			return nil, err
		}
		if hashTok.Kind != token.Hash160Hash {
			return nil, unexpected(hashTok)
		}
		if err := expect(it, token.Hash160); err != nil {
			return nil, err
		}
		if err := expect(it, token.Dup); err != nil {
			return nil, err
		}
		return ast.ECheckSigHash{Hash: hashTok.H160}, nil
	case token.Pubkey:
		pk := tok.PubKey
		n, ok := it.Next()
		if !ok {
			return ast.ECheckSig{PK: pk}, nil
		}
		if n.Kind == token.Swap {
			return ast.WCheckSig{PK: pk}, nil
		}
		it.UnNext()
		return ast.ECheckSig{PK: pk}, nil
	default:
		return nil, unexpected(tok)
	}
}

func parseCheckSigVerify(it *token.Iter) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.EqualVerify:
		hashTok, err := next(it)
		if err != nil {
			return nil, err
		}
		if hashTok.Kind != token.Hash160Hash {
			return nil, unexpected(hashTok)
		}
		if err := expect(it, token.Hash160); err != nil {
			return nil, err
		}
		if err := expect(it, token.Dup); err != nil {
			return nil, err
		}
		return ast.VCheckSigHash{Hash: hashTok.H160}, nil
	case token.Pubkey:
		return ast.VCheckSig{PK: tok.PubKey}, nil
	default:
		return nil, unexpected(tok)
	}
}

// parseMultisigBody reads `<n> <pk...n...> <k>` tail-first: n, then n
// pubkeys popped in reverse script order, then k. The pubkeys are
// reversed back to descriptor/script order before returning.
func parseMultisigBody(it *token.Iter) (int, []btcec.PublicKey, er.R) {
	nTok, err := next(it)
	if err != nil {
		return 0, nil, err
	}
	if nTok.Kind != token.Number {
		return 0, nil, unexpected(nTok)
	}
	pks := make([]btcec.PublicKey, 0, nTok.Num)
	for i := uint32(0); i < nTok.Num; i++ {
		pkTok, err := next(it)
		if err != nil {
			return 0, nil, err
		}
		if pkTok.Kind != token.Pubkey {
			return 0, nil, unexpected(pkTok)
		}
		pks = append(pks, pkTok.PubKey)
	}
	for i, j := 0, len(pks)-1; i < j; i, j = i+1, j-1 {
		pks[i], pks[j] = pks[j], pks[i]
	}
	kTok, err := next(it)
	if err != nil {
		return 0, nil, err
	}
	if kTok.Kind != token.Number {
		return 0, nil, unexpected(kTok)
	}
	return int(kTok.Num), pks, nil
}

func parseVerify(it *token.Iter) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.EndIf:
		rsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		right, err := intoT(rsub)
		if err != nil {
			return nil, err
		}
		if err := expect(it, token.Else); err != nil {
			return nil, err
		}
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoT(lsub)
		if err != nil {
			return nil, err
		}
		if err := expect(it, token.If); err != nil {
			return nil, err
		}
		if err := expect(it, token.EqualVerify); err != nil {
			return nil, err
		}
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		return ast.VSwitchOrT{Left: left, Right: right}, nil
	case token.BoolOr:
		wsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		wexpr, err := intoW(wsub)
		if err != nil {
			return nil, err
		}
		esub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		expr, err := intoE(esub)
		if err != nil {
			return nil, err
		}
		return ast.VParallelOr{Left: expr, Right: wexpr}, nil
	default:
		return nil, unexpected(tok)
	}
}

func parseNumberOneIntoF(it *token.Iter) (ast.Elem, er.R) {
	vsub, err := parseSubexpression(it)
	if err != nil {
		return nil, err
	}
	vexpr, err := intoV(vsub)
	if err != nil {
		return nil, err
	}
	switch v := vexpr.(type) {
	case ast.VCheckSig:
		return ast.FCheckSig{PK: v.PK}, nil
	case ast.VCheckSigHash:
		return ast.FCheckSigHash{Hash: v.Hash}, nil
	case ast.VCheckMultiSig:
		return ast.FCheckMultiSig{K: v.K, Keys: v.Keys}, nil
	case ast.VHashEqual:
		return ast.FHashEqual{Hash: v.Hash}, nil
	case ast.VThreshold:
		return ast.FThreshold{K: v.K, Sube: v.Sube, Subw: v.Subw}, nil
	case ast.VParallelOr:
		return ast.FParallelOr{Left: v.Left, Right: v.Right}, nil
	case ast.VSwitchOr:
		return ast.FSwitchOrV{Left: v.Left, Right: v.Right}, nil
	case ast.VCascadeOr:
		return ast.FCascadeOrV{Left: v.Left, Right: v.Right}, nil
	default:
		return nil, unexpectedElem(vexpr)
	}
}

func parseEndIf(it *token.Iter) (ast.Elem, er.R) {
	tok, ok := it.Next()
	if !ok {
		return nil, errUnexpectedStart()
	}
	if tok.Kind == token.Number && tok.Num == 0 {
		if err := expect(it, token.Else); err != nil {
			return nil, err
		}
		return parseEndIfZeroElse(it)
	}
	it.UnNext()

	rsub, err := parseSubexpression(it)
	if err != nil {
		return nil, err
	}

	if right, ok := rsub.(ast.E); ok {
		n, err := next(it)
		if err != nil {
			return nil, err
		}
		if n.Kind != token.NotIf {
			return nil, unexpected(n)
		}
		if err := expect(it, token.IfDup); err != nil {
			return nil, err
		}
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoE(lsub)
		if err != nil {
			return nil, err
		}
		return ast.ECascadeOr{Left: left, Right: right}, nil
	}

	if right, ok := rsub.(ast.F); ok {
		return parseEndIfFRight(it, right)
	}

	if right, ok := rsub.(ast.V); ok {
		return parseEndIfVRight(it, right)
	}

	if right, ok := rsub.(ast.T); ok {
		return parseEndIfTRight(it, right)
	}

	return nil, unexpectedElem(rsub)
}

func parseEndIfZeroElse(it *token.Iter) (ast.Elem, er.R) {
	rsub, err := parseSubexpression(it)
	if err != nil {
		return nil, err
	}
	right, err := intoF(rsub)
	if err != nil {
		return nil, err
	}

	n, ok := it.Next()
	if ok && n.Kind == token.If {
		if err := expect(it, token.EqualVerify); err != nil {
			return nil, err
		}
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		switch r := right.(type) {
		case ast.FCsv:
			s, ok := it.Next()
			if ok && s.Kind == token.Swap {
				return ast.WCsv{N: r.N}, nil
			}
			if ok {
				it.UnNext()
			}
			return ast.ECastF{F: right}, nil
		case ast.FAnd, ast.FSwitchOr, ast.FSwitchOrV, ast.FCascadeOr:
			return ast.ECastF{F: right}, nil
		default:
			return nil, unexpectedElem(right)
		}
	}
	if ok {
		it.UnNext()
	}
	lsub, err := parseSubexpression(it)
	if err != nil {
		return nil, err
	}
	left, err := intoE(lsub)
	if err != nil {
		return nil, err
	}
	return ast.ECascadeAnd{Left: left, Right: right}, nil
}

func parseEndIfFRight(it *token.Iter, right ast.F) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.NotIf:
		if err := expect(it, token.IfDup); err != nil {
			return nil, err
		}
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoE(lsub)
		if err != nil {
			return nil, err
		}
		return ast.FCascadeOr{Left: left, Right: right}, nil
	case token.If:
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		switch r := right.(type) {
		case ast.FCheckSigHash:
			return ast.ECheckSigHashF{Hash: r.Hash}, nil
		case ast.FCheckMultiSig:
			return ast.ECheckMultiSigF{K: r.K, Keys: r.Keys}, nil
		case ast.FHashEqual:
			n, ok := it.Next()
			if ok && n.Kind == token.Swap {
				return ast.WHashEqual{Hash: r.Hash}, nil
			}
			if ok {
				it.UnNext()
			}
			return ast.EHashEqual{Hash: r.Hash}, nil
		default:
			return nil, unexpectedElem(right)
		}
	case token.Else:
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoF(lsub)
		if err != nil {
			return nil, err
		}
		if err := expect(it, token.If); err != nil {
			return nil, err
		}
		if err := expect(it, token.EqualVerify); err != nil {
			return nil, err
		}
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		return ast.FSwitchOr{Left: left, Right: right}, nil
	default:
		return nil, unexpected(tok)
	}
}

func parseEndIfVRight(it *token.Iter, right ast.V) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.Else:
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoV(lsub)
		if err != nil {
			return nil, err
		}
		if err := expect(it, token.If); err != nil {
			return nil, err
		}
		if err := expect(it, token.EqualVerify); err != nil {
			return nil, err
		}
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		return ast.VSwitchOr{Left: left, Right: right}, nil
	case token.NotIf:
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoE(lsub)
		if err != nil {
			return nil, err
		}
		return ast.VCascadeOr{Left: left, Right: right}, nil
	default:
		return nil, unexpected(tok)
	}
}

func parseEndIfTRight(it *token.Iter, right ast.T) (ast.Elem, er.R) {
	tok, err := next(it)
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case token.Else:
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoT(lsub)
		if err != nil {
			return nil, err
		}
		if err := expect(it, token.If); err != nil {
			return nil, err
		}
		if err := expect(it, token.EqualVerify); err != nil {
			return nil, err
		}
		if err := expect(it, token.Size); err != nil {
			return nil, err
		}
		return ast.TSwitchOr{Left: left, Right: right}, nil
	case token.NotIf:
		if err := expect(it, token.IfDup); err != nil {
			return nil, err
		}
		lsub, err := parseSubexpression(it)
		if err != nil {
			return nil, err
		}
		left, err := intoE(lsub)
		if err != nil {
			return nil, err
		}
		return ast.TCascadeOr{Left: left, Right: right}, nil
	default:
		return nil, unexpected(tok)
	}
}
