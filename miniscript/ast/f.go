package ast

import (
	"github.com/pkt-cash/miniscript/btcec"
	"github.com/pkt-cash/miniscript/chainhash"
	"github.com/pkt-cash/miniscript/er"
	"github.com/pkt-cash/miniscript/miniscript/opcode"
	"github.com/pkt-cash/miniscript/miniscript/scriptbuilder"
)

// FCheckSig is `<pk> CHECKSIGVERIFY 1`.
type FCheckSig struct{ PK btcec.PublicKey }

// FCheckSigHash is `DUP HASH160 <hash> EQUALVERIFY CHECKSIGVERIFY 1`.
type FCheckSigHash struct{ Hash chainhash.Hash160 }

// FCheckMultiSig is `<k> <pk...> <len(pk)> CHECKMULTISIGVERIFY 1`.
type FCheckMultiSig struct {
	K    int
	Keys []btcec.PublicKey
}

// FCsv is `<n> CSV`.
type FCsv struct{ N uint32 }

// FHashEqual is `SIZE 32 EQUALVERIFY SHA256 <hash> EQUALVERIFY 1`.
type FHashEqual struct{ Hash chainhash.Hash256 }

// FThreshold is `<E> <W> ADD ... <W> ADD <k> EQUALVERIFY 1`.
type FThreshold struct {
	K    int
	Sube E
	Subw []W
}

// FAnd is `<V> <F>`.
type FAnd struct{ Left V; Right F }

// FParallelOr is `<E> <W> BOOLOR VERIFY 1`.
type FParallelOr struct{ Left E; Right W }

// FSwitchOr is `SIZE EQUALVERIFY IF <F> ELSE <F> ENDIF`.
type FSwitchOr struct{ Left, Right F }

// FSwitchOrV is `SIZE EQUALVERIFY IF <V> ELSE <V> ENDIF 1`.
type FSwitchOrV struct{ Left, Right V }

// FCascadeOr is `<E> IFDUP NOTIF <F> ENDIF`.
type FCascadeOr struct{ Left E; Right F }

// FCascadeOrV is `<E> NOTIF <V> ENDIF 1`.
type FCascadeOrV struct{ Left E; Right V }

func (FCheckSig) isF()      {}
func (FCheckSigHash) isF()  {}
func (FCheckMultiSig) isF() {}
func (FCsv) isF()           {}
func (FHashEqual) isF()     {}
func (FThreshold) isF()     {}
func (FAnd) isF()           {}
func (FParallelOr) isF()    {}
func (FSwitchOr) isF()      {}
func (FSwitchOrV) isF()     {}
func (FCascadeOr) isF()     {}
func (FCascadeOrV) isF()    {}

func (f FCheckSig) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddData(f.PK.Serialize()).AddOp(opcode.OP_CHECKSIGVERIFY).AddInt64(1)
}

func (f FCheckSigHash) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_DUP).AddOp(opcode.OP_HASH160).AddData(f.Hash[:]).
		AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_CHECKSIGVERIFY).AddInt64(1)
}

func (f FCheckMultiSig) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddInt64(int64(f.K))
	for _, pk := range f.Keys {
		b.AddData(pk.Serialize())
	}
	b.AddInt64(int64(len(f.Keys))).AddOp(opcode.OP_CHECKMULTISIGVERIFY).AddInt64(1)
}

func (f FCsv) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddInt64(int64(f.N)).AddOp(opcode.OP_CHECKSEQUENCEVERIFY)
}

func (f FHashEqual) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddInt64(32).AddOp(opcode.OP_EQUALVERIFY).
		AddOp(opcode.OP_SHA256).AddData(f.Hash[:]).AddOp(opcode.OP_EQUALVERIFY).AddInt64(1)
}

func (f FThreshold) Serialize(b *scriptbuilder.ScriptBuilder) {
	f.Sube.Serialize(b)
	for _, w := range f.Subw {
		w.Serialize(b)
		b.AddOp(opcode.OP_ADD)
	}
	b.AddInt64(int64(f.K)).AddOp(opcode.OP_EQUALVERIFY).AddInt64(1)
}

func (f FAnd) Serialize(b *scriptbuilder.ScriptBuilder) {
	f.Left.Serialize(b)
	f.Right.Serialize(b)
}

func (f FParallelOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	f.Left.Serialize(b)
	f.Right.Serialize(b)
	b.AddOp(opcode.OP_BOOLOR).AddOp(opcode.OP_VERIFY).AddInt64(1)
}

func (f FSwitchOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_IF)
	f.Left.Serialize(b)
	b.AddOp(opcode.OP_ELSE)
	f.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF)
}

func (f FSwitchOrV) Serialize(b *scriptbuilder.ScriptBuilder) {
	b.AddOp(opcode.OP_SIZE).AddOp(opcode.OP_EQUALVERIFY).AddOp(opcode.OP_IF)
	f.Left.Serialize(b)
	b.AddOp(opcode.OP_ELSE)
	f.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF).AddInt64(1)
}

func (f FCascadeOr) Serialize(b *scriptbuilder.ScriptBuilder) {
	f.Left.Serialize(b)
	b.AddOp(opcode.OP_IFDUP).AddOp(opcode.OP_NOTIF)
	f.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF)
}

func (f FCascadeOrV) Serialize(b *scriptbuilder.ScriptBuilder) {
	f.Left.Serialize(b)
	b.AddOp(opcode.OP_NOTIF)
	f.Right.Serialize(b)
	b.AddOp(opcode.OP_ENDIF).AddInt64(1)
}

func (f FCheckSig) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return satisfyChecksig(f.PK, ctx) }
func (f FCheckSigHash) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyChecksigHash(f.Hash, ctx)
}
func (f FCheckMultiSig) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCheckmultisig(f.K, f.Keys, ctx)
}
func (f FCsv) Satisfy(ctx *SatCtx) ([][]byte, er.R)       { return satisfyCsv(f.N, ctx) }
func (f FHashEqual) Satisfy(ctx *SatCtx) ([][]byte, er.R) { return satisfyHashEqual(f.Hash, ctx) }
func (f FThreshold) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyThreshold(f.K, f.Sube, f.Subw, ctx)
}
func (f FAnd) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	lsat, err := f.Left.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	rsat, err := f.Right.Satisfy(ctx)
	if err != nil {
		return nil, err
	}
	return append(lsat, rsat...), nil
}
func (f FParallelOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyParallelOr(f.Left, f.Right, ctx)
}
func (f FSwitchOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfySwitchOr(f.Left, f.Right, ctx)
}
func (f FSwitchOrV) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfySwitchOr(f.Left, f.Right, ctx)
}
func (f FCascadeOr) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCascadeOr(f.Left, f.Right, ctx)
}
func (f FCascadeOrV) Satisfy(ctx *SatCtx) ([][]byte, er.R) {
	return satisfyCascadeOr(f.Left, f.Right, ctx)
}

func (f FCheckSig) RequiredKeys() []btcec.PublicKey      { return []btcec.PublicKey{f.PK} }
func (f FCheckSigHash) RequiredKeys() []btcec.PublicKey  { return nil }
func (f FCheckMultiSig) RequiredKeys() []btcec.PublicKey { return f.Keys }
func (f FCsv) RequiredKeys() []btcec.PublicKey           { return nil }
func (f FHashEqual) RequiredKeys() []btcec.PublicKey     { return nil }
func (f FThreshold) RequiredKeys() []btcec.PublicKey {
	ret := f.Sube.RequiredKeys()
	for _, sub := range f.Subw {
		ret = append(ret, sub.RequiredKeys()...)
	}
	return ret
}
func (f FAnd) RequiredKeys() []btcec.PublicKey {
	return append(f.Left.RequiredKeys(), f.Right.RequiredKeys()...)
}
func (f FParallelOr) RequiredKeys() []btcec.PublicKey {
	return append(f.Left.RequiredKeys(), f.Right.RequiredKeys()...)
}
func (f FSwitchOr) RequiredKeys() []btcec.PublicKey {
	return append(f.Left.RequiredKeys(), f.Right.RequiredKeys()...)
}
func (f FSwitchOrV) RequiredKeys() []btcec.PublicKey {
	return append(f.Left.RequiredKeys(), f.Right.RequiredKeys()...)
}
func (f FCascadeOr) RequiredKeys() []btcec.PublicKey {
	return append(f.Left.RequiredKeys(), f.Right.RequiredKeys()...)
}
func (f FCascadeOrV) RequiredKeys() []btcec.PublicKey {
	return append(f.Left.RequiredKeys(), f.Right.RequiredKeys()...)
}
