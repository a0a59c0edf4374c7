package ast

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/mserr"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

// ECheckSig is `<pk> CHECKSIG`.
type ECheckSig struct{ PK btcec.PublicKey }

// ECheckSigHash is `DUP HASH160 <hash> EQUALVERIFY CHECKSIG`.
type ECheckSigHash struct{ Hash chainhash.Hash160 }

// ECheckSigHashF is `SIZE IF DUP HASH160 <hash> EQUALVERIFY CHECKSIGVERIFY 1 ENDIF`.
type ECheckSigHashF struct{ Hash chainhash.Hash160 }

// ECheckMultiSig is `<k> <pk...> <len(pk)> CHECKMULTISIG`.
type ECheckMultiSig struct {
	K    int
	Keys []btcec.PublicKey
}

// ECheckMultiSigF is `SIZE IF <k> <pk...> <len(pk)> CHECKMULTISIGVERIFY 1 ENDIF`.
type ECheckMultiSigF struct {
	K    int
	Keys []btcec.PublicKey
}

// EHashEqual is `SIZE IF SIZE 32 EQUALVERIFY SHA256 <hash> EQUALVERIFY 1 ENDIF`.
type EHashEqual struct{ Hash chainhash.Hash256 }

// EThreshold is `<E> <W> ADD ... <W> ADD <k> EQUAL`.
type EThreshold struct {
	K    int
	Sube E
	Subw []W
}

// EParallelAnd is `<E> <W> BOOLAND`.
type EParallelAnd struct{ Left E; Right W }

// ECascadeAnd is `<E> IF <F> ELSE 0 ENDIF`.
type ECascadeAnd struct{ Left E; Right F }

// EParallelOr is `<E> <W> BOOLOR`.
type EParallelOr struct{ Left E; Right W }

// ECascadeOr is `<E> IFDUP NOTIF <E> ENDIF`.
type ECascadeOr struct{ Left, Right E }

// ECastF is `SIZE EQUALVERIFY IF <F> ELSE 0 ENDIF`.
type ECastF struct{ F F }

func (ECheckSig) isE()       {}
func (ECheckSigHash) isE()   {}
func (ECheckSigHashF) isE()  {}
func (ECheckMultiSig) isE()  {}
func (ECheckMultiSigF) isE() {}
func (EHashEqual) isE()      {}
func (EThreshold) isE()      {}
func (EParallelAnd) isE()    {}
func (ECascadeAnd) isE()     {}
func (EParallelOr) isE()     {}
func (ECascadeOr) isE()      {}
func (ECastF) isE()          {}

func (e ECheckSig) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddData(e.PK.Serialize()).AddOp(opcode.OP_CHECKSIG)
}

func (e ECheckSigHash) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_DUP).AddOp(opcode.OP_HASH160).AddData(e.Hash[:]).
		AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_CHECKSIG)
}

func (e ECheckSigHashF) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_IF).
		AddOp(opcode.OP_DUP).AddOp(opcode.OP_HASH160).AddData(e.Hash[:]).
		AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_CHECKSIGVERIFY).
		AddInt64(1).AddOp(opcode.OP_ENDIF)
}

func (e ECheckMultiSig) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddInt64(int64(e.K))
	for _, pk := range e.Keys {
		b.AddData(pk.Serialize())
	}
	b.AddInt64(int64(len(e.Keys))).AddOp(opcode.OP_CHECKMULTISIG)
}

func (e ECheckMultiSigF) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_IF).AddInt64(int64(e.K))
	for _, pk := range e.Keys {
		b.AddData(pk.Serialize())
	}
	b.AddInt64(int64(len(e.Keys))).AddOp(opcode.OP_CHECKMULTISIGVERIFY).
		AddInt64(1).AddOp(opcode.OP_ENDIF)
}

func (e EHashEqual) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_IF).
		AddOp(opcode.OP_SIZE).AddInt64(32).AddOp(opcode.OP_EQUALVERIFY).
		AddOp(opcode.OP_SHA256).AddData(e.Hash[:]).AddOp(opcode.OP_EQUALVERIFY).
		AddInt64(1).AddOp(opcode.OP_ENDIF)
}

func (e EThreshold) Serialize(b *scriptbuilder.ScriptBuilder) {
	e.Sube.Serialize(b)
	for _, w := range e.Subw {
		w.Serialize(b)
		b.AddOp(opcode.OP_ADD)
	}
	b.AddInt64(int64(e.K)).AddOp(opcode.OP_EQUAL)
}

func (e EParallelAnd) Serialize(b *scriptbuilder.ScriptBuilder) {
	e.Left.Serialize(b)
	e.Right.Serialize(b)
	b.AddOp(opcode.OP_BOOLAND)
}

func (e ECascadeAnd) Serialize(b *scriptbuilder.ScriptBuilder) {
	e.Left.Serialize(b)
	b.AddOp(opcode.OP_IF)
	e.Right.Serialize(b)
	b.AddOp(opcode.OP_ELSE).AddInt64(0).AddOp(opcode.OP_ENDIF)
}

func (e ECascadeOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	e.Left.Serialize(b)
	b.AddOp(opcode.OP_IFDUP).AddOp(opcode.OP_NOTIF)
	e.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF)
}

func (e EParallelOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	e.Left.Serialize(b)
	e.Right.Serialize(b)
	b.AddOp(opcode.OP_BOOLOR)
}

func (e ECastF) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_IF)
	e.F.Serialize(b)
	b.AddOp(opcode.OP_ELSE).AddInt64(0).AddOp(opcode.OP_ENDIF)
}

func (e ECheckSig) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return satisfyChecksig(e.PK, ctx) }
func (e ECheckSigHash) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyChecksigHash(e.Hash, ctx)
}
func (e ECheckSigHashF) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyChecksigHash(e.Hash, ctx)
}
func (e ECheckMultiSig) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCheckmultisig(e.K, e.Keys, ctx)
}
func (e ECheckMultiSigF) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCheckmultisig(e.K, e.Keys, ctx)
}
func (e EHashEqual) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return satisfyHashEqual(e.Hash, ctx) }
func (e EThreshold) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyThreshold(e.K, e.Sube, e.Subw, ctx)
}
func (e EParallelAnd) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	lsat, err := e.Left.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	rsat, err := e.Right.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	return append(lsat, rsat...), nil
}
func (e ECascadeAnd) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	lsat, err := e.Left.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	rsat, err := e.Right.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	return append(lsat, rsat...), nil
}
func (e EParallelOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyParallelOr(e.Left, e.Right, ctx)
}
func (e ECascadeOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCascadeOr(e.Left, e.Right, ctx)
}
func (e ECastF) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	fsat, err := e.F.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	return append(fsat, []byte{1}), nil
}

func (e ECheckSig) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return [][]byte{{}}, nil
}
func dissatisfyCheckSigHash(hash chainhash.Hash160, pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	pk, ok := pkhMap[hash]
	if !ok {
		return nil, mserr.New(mserr.MissingPubkey, hash.String())
	}
	return [][]byte{{}, pk.Serialize()}, nil
}
func (e ECheckSigHash) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return dissatisfyCheckSigHash(e.Hash, pkhMap)
}
func (e ECheckSigHashF) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return dissatisfyCheckSigHash(e.Hash, pkhMap)
}
func (e ECheckMultiSig) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return make([][]byte, e.K+1), nil
}
func (e ECheckMultiSigF) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return make([][]byte, e.K+1), nil
}
func (e EHashEqual) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return [][]byte{{}}, nil
}
func (e EThreshold) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	ret, err := e.Sube.Dissatisfy(pkhMap)
	if err != nil {
		return nil, err
	}
	for _, sub := range e.Subw {
		d, err := sub.Dissatisfy(pkhMap)
		if err != nil {
			return nil, err
		}
		ret = append(ret, d...)
	}
	return ret, nil
}
func (e EParallelAnd) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	ret, err := e.Left.Dissatisfy(pkhMap)
	if err != nil {
		return nil, err
	}
	d, err := e.Right.Dissatisfy(pkhMap)
	if err != nil {
		return nil, err
	}
	return append(ret, d...), nil
}
func (e ECascadeAnd) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return e.Left.Dissatisfy(pkhMap)
}
func (e ECascadeOr) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	ret, err := e.Left.Dissatisfy(pkhMap)
	if err != nil {
		return nil, err
	}
	d, err := e.Right.Dissatisfy(pkhMap)
	if err != nil {
		return nil, err
	}
	return append(ret, d...), nil
}
func (e EParallelOr) Dissatisfy(pkhMap map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	ret, err := e.Left.Dissatisfy(pkhMap)
	if err != nil {
		return nil, err
	}
	d, err := e.Right.Dissatisfy(pkhMap)
	if err != nil {
		return nil, err
	}
	return append(ret, d...), nil
}
func (e ECastF) Dissatisfy(map[chainhash.Hash160]btcec.PublicKey) ([][]byte, er.R) {
	return [][]byte{}, nil
}

func (e ECheckSig) RequiredKeys() []btcec.PublicKey      { return []btcec.PublicKey{e.PK} }
func (e ECheckSigHash) RequiredKeys() []btcec.PublicKey  { return nil }
func (e ECheckSigHashF) RequiredKeys() []btcec.PublicKey { return nil }
func (e ECheckMultiSig) RequiredKeys() []btcec.PublicKey { return e.Keys }
func (e ECheckMultiSigF) RequiredKeys() []btcec.PublicKey {
	return e.Keys
}
func (e EHashEqual) RequiredKeys() []btcec.PublicKey { return nil }
func (e EThreshold) RequiredKeys() []btcec.PublicKey {
	ret := e.Sube.RequiredKeys()
	for _, sub := range e.Subw {
		ret = append(ret, sub.RequiredKeys()...)
	}
	return ret
}
func (e EParallelAnd) RequiredKeys() []btcec.PublicKey {
	return append(e.Left.RequiredKeys(), e.Right.RequiredKeys()...)
}
func (e ECascadeAnd) RequiredKeys() []btcec.PublicKey {
	return append(e.Left.RequiredKeys(), e.Right.RequiredKeys()...)
}
func (e EParallelOr) RequiredKeys() []btcec.PublicKey {
	return append(e.Left.RequiredKeys(), e.Right.RequiredKeys()...)
}
func (e ECascadeOr) RequiredKeys() []btcec.PublicKey {
	return append(e.Left.RequiredKeys(), e.Right.RequiredKeys()...)
}
func (e ECastF) RequiredKeys() []btcec.PublicKey { return e.F.RequiredKeys() }
